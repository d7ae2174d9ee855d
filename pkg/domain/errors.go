package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned when a jug capacity is below 1.
var ErrInvalidCapacity = errors.New("invalid capacity")

// ErrCapacityTooLarge is returned when a capacity exceeds the configured guard.
var ErrCapacityTooLarge = errors.New("capacity exceeds limit")

// ErrInvalidTarget is returned for a negative target.
var ErrInvalidTarget = errors.New("invalid target")

// ErrTargetOutOfRange is returned in strict mode when the target exceeds both capacities.
var ErrTargetOutOfRange = errors.New("target exceeds both capacities")

// ErrTargetUnreachable is returned when no sequence of moves reaches the target.
var ErrTargetUnreachable = errors.New("target unreachable")

// ErrNotAdjacent is returned by strict verification when no single move explains a transition.
var ErrNotAdjacent = errors.New("states are not adjacent")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotRunning is returned when a playback step is requested while the playback is idle or stopped.
var ErrNotRunning = errors.New("playback not running")

// ErrPlaybackFinished is returned when stepping past the last state of the solution.
var ErrPlaybackFinished = errors.New("playback finished")

// ErrPuzzleNotFound is returned when a catalog entry cannot be found.
var ErrPuzzleNotFound = errors.New("puzzle not found")

// ValidationError describes which input field was rejected.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
