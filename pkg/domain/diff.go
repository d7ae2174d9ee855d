package domain

// PlaybackDiff represents the changes between two playback snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type PlaybackDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Status      *PlaybackStatus `json:"status,omitempty"`
	Cursor      *int            `json:"cursor,omitempty"`
	Current     *JugState       `json:"current,omitempty"`
	Highlighted *Rule           `json:"highlighted,omitempty"`

	// Appended contains the steps replayed since the old snapshot.
	// A reset (history shrinking) is reported through Cursor and Status only.
	Appended []Step `json:"appended,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState.
// It returns nil when nothing changed.
func Diff(oldState, newState *Playback) *PlaybackDiff {
	if newState == nil {
		return nil
	}

	diff := &PlaybackDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}
	if oldState == nil || oldState.Cursor != newState.Cursor {
		diff.Cursor = &newState.Cursor
	}
	if current := newState.Current(); oldState == nil || oldState.Current() != current {
		diff.Current = &current
	}
	if oldState == nil || oldState.Highlighted != newState.Highlighted {
		diff.Highlighted = &newState.Highlighted
	}

	oldLen := 0
	if oldState != nil {
		oldLen = len(oldState.History)
	}
	if len(newState.History) > oldLen {
		diff.Appended = newState.History[oldLen:]
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *PlaybackDiff) IsEmpty() bool {
	return d.Status == nil &&
		d.Cursor == nil &&
		d.Current == nil &&
		d.Highlighted == nil &&
		len(d.Appended) == 0
}
