package runner

import (
	"log/slog"

	"github.com/aretw0/waterjug/pkg/ports"
)

// Option configures a Runner.
type Option func(*Runner)

// WithInputHandler sets the IO strategy.
func WithInputHandler(h IOHandler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithStore persists the playback snapshot after every command.
func WithStore(s ports.SessionStore) Option {
	return func(r *Runner) {
		r.Store = s
	}
}

// WithSessionID sets the key used with the store.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLogger sets the logger for internal debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = l
	}
}
