package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/waterjug/pkg/domain"
)

// LoggingHooks returns lifecycle hooks that log every event at debug level,
// chained after next.
func LoggingHooks(logger *slog.Logger, next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSearchStart: func(ctx context.Context, e *domain.SearchEvent) {
			logger.DebugContext(ctx, "search_start", "problem", e.Problem.String())
			if next.OnSearchStart != nil {
				next.OnSearchStart(ctx, e)
			}
		},
		OnSearchDone: func(ctx context.Context, e *domain.SearchEvent) {
			attrs := []any{"problem", e.Problem.String(), "found", e.Found, "moves", e.Moves, "duration", e.Duration}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.DebugContext(ctx, "search_done", attrs...)
			if next.OnSearchDone != nil {
				next.OnSearchDone(ctx, e)
			}
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"session_id", e.SessionID,
				"index", e.Step.Index,
				"from", e.Step.Previous.String(),
				"to", e.Step.Current.String(),
				"rule", e.Step.Rule.String(),
			)
			if next.OnStep != nil {
				next.OnStep(ctx, e)
			}
		},
	}
}
