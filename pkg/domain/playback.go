package domain

import "fmt"

// PlaybackStatus defines the mode of a playback session.
type PlaybackStatus string

const (
	StatusIdle     PlaybackStatus = "idle"     // Created or reset, waiting for start
	StatusRunning  PlaybackStatus = "running"  // Accepting next
	StatusStopped  PlaybackStatus = "stopped"  // Paused by the user
	StatusFinished PlaybackStatus = "finished" // Every state of the path was shown
)

// Step is one advance of the playback: the transition from Previous to
// Current, the rule that explains it and, on arrival, the goal rule.
type Step struct {
	Index       int      `json:"index"`
	Previous    JugState `json:"previous"`
	Current     JugState `json:"current"`
	Rule        Rule     `json:"rule"`
	Goal        Rule     `json:"goal,omitempty"`
	Explanation string   `json:"explanation"`
}

// Reached reports whether this step arrived at the target.
func (s Step) Reached() bool {
	return s.Goal.IsGoal()
}

// Explain renders the explanation line shown for a step.
func Explain(index int, prev, curr JugState, rule Rule) string {
	return fmt.Sprintf("Step %d: State changed from %s → %s\nProduction Rule %s fired.", index, prev, curr, rule)
}

// Playback is the persisted snapshot of a playback controller.
type Playback struct {
	SessionID   string         `json:"session_id"`
	Solution    Solution       `json:"solution"`
	Cursor      int            `json:"cursor"`
	Previous    JugState       `json:"previous"`
	Status      PlaybackStatus `json:"status"`
	Highlighted Rule           `json:"highlighted,omitempty"`
	History     []Step         `json:"history,omitempty"`
}

// Current returns the state currently shown, which is the last replayed one.
func (p *Playback) Current() JugState {
	if p.Cursor == 0 || len(p.Solution.Path) == 0 {
		return Initial
	}
	return p.Solution.Path[p.Cursor-1]
}

// Remaining returns how many steps are left.
func (p *Playback) Remaining() int {
	return max(0, len(p.Solution.Path)-p.Cursor)
}
