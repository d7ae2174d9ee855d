package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/internal/presentation/tui"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/playback"
	"github.com/aretw0/waterjug/pkg/ports"
)

const helpText = `Commands:
  start         start or restart the playback
  next, <enter> show the next step
  stop          pause the playback
  resume        continue a stopped playback
  reset         rewind to (0, 0)
  rules         show the production rules
  quit, exit    leave`

// Runner handles the command loop over a playback controller.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store is the persistence adapter. If nil, sessions are ephemeral.
	Store     ports.SessionStore
	SessionID string
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run reads commands until quit, EOF or context cancellation.
// Invalid commands are reported and the loop continues; only IO and
// persistence failures end it with an error.
func (r *Runner) Run(ctx context.Context, ctrl *playback.Controller) error {
	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		line, err = SanitizeInput(line)
		if err != nil {
			if outErr := r.emitError(ctx, ctrl, err); outErr != nil {
				return outErr
			}
			continue
		}

		cmd := strings.ToLower(strings.TrimSpace(line))
		if cmd == "quit" || cmd == "exit" {
			return nil
		}

		r.Logger.Debug("command", "command", cmd, "status", string(ctrl.Status()), "cursor", ctrl.Cursor())

		if err := r.dispatch(ctx, ctrl, cmd); err != nil {
			return err
		}

		if err := r.save(ctx, ctrl); err != nil {
			return fmt.Errorf("critical persistence error: %w", err)
		}
	}
}

// dispatch executes one command. Only output failures are returned.
func (r *Runner) dispatch(ctx context.Context, ctrl *playback.Controller, cmd string) error {
	switch cmd {
	case "start":
		ctrl.Start()
		return r.emit(ctx, ctrl, EventStarted, nil)
	case "", "next", "n":
		step, err := ctrl.NextContext(ctx)
		if err != nil {
			return r.emitError(ctx, ctrl, err)
		}
		if err := r.emit(ctx, ctrl, EventStep, &step); err != nil {
			return err
		}
		if ctrl.Status() == domain.StatusFinished {
			return r.emit(ctx, ctrl, EventFinished, nil)
		}
		return nil
	case "stop":
		if ctrl.Status() != domain.StatusRunning {
			return r.emitError(ctx, ctrl, domain.ErrNotRunning)
		}
		ctrl.Stop()
		return r.emit(ctx, ctrl, EventStopped, nil)
	case "resume":
		if err := ctrl.Resume(); err != nil {
			return r.emitError(ctx, ctrl, err)
		}
		return r.emit(ctx, ctrl, EventResumed, nil)
	case "reset":
		ctrl.Reset()
		return r.emit(ctx, ctrl, EventReset, nil)
	case "rules":
		ev := r.event(ctrl, EventRules)
		ev.Message = tui.RulesMarkdown(ctrl.Highlighted())
		return r.Handler.Output(ctx, ev)
	case "help", "?":
		return r.Handler.SystemOutput(ctx, helpText)
	default:
		return r.emitError(ctx, ctrl, fmt.Errorf("unknown command %q (type 'help')", cmd))
	}
}

func (r *Runner) event(ctrl *playback.Controller, t EventType) Event {
	return Event{
		Type:        t,
		Status:      ctrl.Status(),
		Highlighted: ctrl.Highlighted(),
		Current:     ctrl.Current(),
	}
}

func (r *Runner) emit(ctx context.Context, ctrl *playback.Controller, t EventType, step *domain.Step) error {
	ev := r.event(ctrl, t)
	ev.Step = step
	if err := r.Handler.Output(ctx, ev); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) emitError(ctx context.Context, ctrl *playback.Controller, cause error) error {
	ev := r.event(ctrl, EventError)
	ev.Message = cause.Error()
	if err := r.Handler.Output(ctx, ev); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) save(ctx context.Context, ctrl *playback.Controller) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	snap := ctrl.Snapshot()
	snap.SessionID = r.SessionID
	return r.Store.Save(ctx, r.SessionID, &snap)
}
