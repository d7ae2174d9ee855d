package runner

import (
	"context"

	"github.com/aretw0/waterjug/pkg/domain"
)

// EventType names what happened in response to a command.
type EventType string

const (
	EventStarted  EventType = "started"
	EventStep     EventType = "step"
	EventStopped  EventType = "stopped"
	EventResumed  EventType = "resumed"
	EventReset    EventType = "reset"
	EventFinished EventType = "finished"
	EventRules    EventType = "rules"
	EventError    EventType = "error"
)

// Event is one piece of runner output.
type Event struct {
	Type        EventType             `json:"type"`
	Status      domain.PlaybackStatus `json:"status"`
	Highlighted domain.Rule           `json:"highlighted,omitempty"`
	Current     domain.JugState       `json:"current"`
	Step        *domain.Step          `json:"step,omitempty"`
	Message     string                `json:"message,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents an event to the user.
	Output(ctx context.Context, ev Event) error

	// Input reads the next command line. It returns io.EOF when the input
	// is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, warnings).
	SystemOutput(ctx context.Context, msg string) error
}
