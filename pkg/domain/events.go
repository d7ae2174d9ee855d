package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSearchStart EventType = "search_start"
	EventSearchDone  EventType = "search_done"
	EventStep        EventType = "step"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// SearchEvent describes one invocation of the search engine.
type SearchEvent struct {
	EventBase
	Problem  Problem       `json:"problem"`
	Found    bool          `json:"found"`
	Moves    int           `json:"moves,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// StepEvent describes one playback advance.
type StepEvent struct {
	EventBase
	SessionID string `json:"session_id,omitempty"`
	Step      Step   `json:"step"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnSearchStart func(context.Context, *SearchEvent)
	OnSearchDone  func(context.Context, *SearchEvent)
	OnStep        func(context.Context, *StepEvent)
}
