package waterjug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/waterjug/internal/classify"
	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/internal/search"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/playback"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxCapacity bounds each jug so the O(cap1*cap2) search stays cheap.
const DefaultMaxCapacity = 10000

// Engine is the high-level entry point for the waterjug library.
// It validates problems, runs the search and hands out playback controllers.
// An Engine is safe for concurrent use.
type Engine struct {
	maxCapacity  int
	strictTarget bool
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	tracer       trace.Tracer
	validate     *validator.Validate
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxCapacity sets the largest accepted jug capacity. Zero or less
// disables the guard.
func WithMaxCapacity(n int) Option {
	return func(e *Engine) {
		e.maxCapacity = n
	}
}

// WithStrictTarget toggles the rejection of targets larger than both jugs
// (default: on). When off, such targets simply come back unreachable.
func WithStrictTarget(strict bool) Option {
	return func(e *Engine) {
		e.strictTarget = strict
	}
}

// WithTracer sets the OpenTelemetry tracer used for search spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// New initializes a new Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		maxCapacity:  DefaultMaxCapacity,
		strictTarget: true,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.tracer == nil {
		eng.tracer = otel.Tracer("github.com/aretw0/waterjug")
	}

	eng.validate = validator.New(validator.WithRequiredStructEnabled())
	eng.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return eng, nil
}

// Validate checks a problem against the field constraints and the engine
// policy (capacity guard, strict target).
func (e *Engine) Validate(p domain.Problem) error {
	if err := e.validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return fmt.Errorf("validate problem: %w", err)
		}
		fe := fieldErrs[0]
		sentinel := domain.ErrInvalidCapacity
		if fe.Field() == "target" {
			sentinel = domain.ErrInvalidTarget
		}
		return &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("must be %s %s, got %v", fe.Tag(), fe.Param(), fe.Value()),
			Err:     sentinel,
		}
	}

	if e.maxCapacity > 0 && p.Max() > e.maxCapacity {
		field := "cap1"
		if p.Jug2 > p.Jug1 {
			field = "cap2"
		}
		return &domain.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d, got %d", e.maxCapacity, p.Max()),
			Err:     domain.ErrCapacityTooLarge,
		}
	}

	if e.strictTarget && p.Target > p.Max() {
		return &domain.ValidationError{
			Field:   "target",
			Message: fmt.Sprintf("%d is larger than both jugs (%d, %d)", p.Target, p.Jug1, p.Jug2),
			Err:     domain.ErrTargetOutOfRange,
		}
	}
	return nil
}

// Solve finds the shortest sequence of states from (0,0) to a state holding
// the target in either jug.
// It returns domain.ErrTargetUnreachable when the search exhausts the state
// space.
func (e *Engine) Solve(ctx context.Context, p domain.Problem) (*domain.Solution, error) {
	ctx, span := e.tracer.Start(ctx, "waterjug.Solve",
		trace.WithAttributes(
			attribute.Int("waterjug.cap1", p.Jug1),
			attribute.Int("waterjug.cap2", p.Jug2),
			attribute.Int("waterjug.target", p.Target),
		),
	)
	defer span.End()

	if err := e.Validate(p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	if e.hooks.OnSearchStart != nil {
		e.hooks.OnSearchStart(ctx, &domain.SearchEvent{
			EventBase: domain.EventBase{Timestamp: started, Type: domain.EventSearchStart},
			Problem:   p,
		})
	}

	path := search.FindShortestPath(p.Capacities, p.Target)

	done := &domain.SearchEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSearchDone},
		Problem:   p,
		Found:     len(path) > 0,
		Moves:     path.Moves(),
		Duration:  time.Since(started),
	}

	if len(path) == 0 {
		err := fmt.Errorf("%w: %s", domain.ErrTargetUnreachable, p)
		done.Err = err
		e.fireSearchDone(ctx, done)
		span.SetAttributes(attribute.Bool("waterjug.found", false))
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("search exhausted", "problem", p.String(), "duration", done.Duration)
		return nil, err
	}

	last, _ := path.Last()
	goal, _ := classify.GoalRule(last, p.Target)
	e.fireSearchDone(ctx, done)

	span.SetAttributes(
		attribute.Bool("waterjug.found", true),
		attribute.Int("waterjug.moves", path.Moves()),
	)
	span.SetStatus(codes.Ok, "")
	e.logger.Debug("search done", "problem", p.String(), "moves", path.Moves(), "duration", done.Duration)

	return &domain.Solution{Problem: p, Path: path, Goal: goal}, nil
}

func (e *Engine) fireSearchDone(ctx context.Context, ev *domain.SearchEvent) {
	if e.hooks.OnSearchDone != nil {
		e.hooks.OnSearchDone(ctx, ev)
	}
}

// Steps returns the annotated replay of a solution: one step per state,
// starting with the replay of (0,0).
func (e *Engine) Steps(sol *domain.Solution) []domain.Step {
	ctrl := playback.New(*sol, playback.WithLogger(e.logger))
	steps := make([]domain.Step, 0, len(sol.Path))
	for step := range ctrl.Steps() {
		steps = append(steps, step)
	}
	return steps
}

// Classify returns the rule that explains prev → curr.
func (e *Engine) Classify(prev, curr domain.JugState, caps domain.Capacities) domain.Rule {
	return classify.Classify(prev, curr, caps)
}

// Verify is the strict form of Classify; it fails with domain.ErrNotAdjacent
// when no single move explains the transition.
func (e *Engine) Verify(prev, curr domain.JugState, caps domain.Capacities) (domain.Rule, error) {
	return classify.Verify(prev, curr, caps)
}

// GoalRule reports which jug holds the target, if any.
func (e *Engine) GoalRule(state domain.JugState, target int) (domain.Rule, bool) {
	return classify.GoalRule(state, target)
}

// Rules returns the full production rule catalog, R1 to R12.
func (e *Engine) Rules() []domain.Rule {
	return domain.Rules()
}

// Playback solves p and returns an idle controller over the solution.
// Extra options are applied after the engine's logger and hooks.
func (e *Engine) Playback(ctx context.Context, p domain.Problem, opts ...playback.Option) (*playback.Controller, error) {
	sol, err := e.Solve(ctx, p)
	if err != nil {
		return nil, err
	}
	base := []playback.Option{
		playback.WithLogger(e.logger),
		playback.WithLifecycleHooks(e.hooks),
	}
	return playback.New(*sol, append(base, opts...)...), nil
}

// Explore returns every state reachable from (0,0) in BFS order, with the
// transitions between them.
func (e *Engine) Explore(ctx context.Context, caps domain.Capacities) (domain.StateSpace, error) {
	_, span := e.tracer.Start(ctx, "waterjug.Explore")
	defer span.End()

	if err := e.Validate(domain.Problem{Capacities: caps}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.StateSpace{}, err
	}
	space := search.Explore(caps)
	span.SetAttributes(attribute.Int("waterjug.states", len(space.States)))
	return space, nil
}
