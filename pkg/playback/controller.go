package playback

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/aretw0/waterjug/internal/classify"
	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/pkg/domain"
)

// Controller replays a solution step by step.
// It is not safe for concurrent use; sessions serialise access through the
// session manager.
type Controller struct {
	sessionID   string
	solution    domain.Solution
	cursor      int
	previous    domain.JugState
	status      domain.PlaybackStatus
	highlighted domain.Rule
	history     []domain.Step

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithSessionID tags snapshots and events with a session identifier.
func WithSessionID(id string) Option {
	return func(c *Controller) {
		c.sessionID = id
	}
}

// WithLifecycleHooks registers the OnStep hook.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger sets the logger used for invariant warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates an idle controller over solution.
func New(solution domain.Solution, opts ...Option) *Controller {
	c := &Controller{
		solution: solution,
		status:   domain.StatusIdle,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore rebuilds a controller from a persisted snapshot.
func Restore(p domain.Playback, opts ...Option) *Controller {
	c := New(p.Solution, append([]Option{WithSessionID(p.SessionID)}, opts...)...)
	c.cursor = p.Cursor
	c.previous = p.Previous
	c.status = p.Status
	c.highlighted = p.Highlighted
	c.history = append([]domain.Step(nil), p.History...)
	if c.status == "" {
		c.status = domain.StatusIdle
	}
	return c
}

// Solution returns the replayed solution.
func (c *Controller) Solution() domain.Solution {
	return c.solution
}

// Status returns the current playback mode.
func (c *Controller) Status() domain.PlaybackStatus {
	return c.status
}

// Highlighted returns the rule the presentation layer should light up.
func (c *Controller) Highlighted() domain.Rule {
	return c.highlighted
}

// Current returns the state currently shown.
func (c *Controller) Current() domain.JugState {
	if c.cursor == 0 {
		return domain.Initial
	}
	return c.solution.Path[c.cursor-1]
}

// Cursor returns the index of the next state to replay.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Done reports whether every state of the path was replayed.
func (c *Controller) Done() bool {
	return c.cursor >= len(c.solution.Path)
}

// Start (re)starts the replay from the initial state and highlights R11.
func (c *Controller) Start() {
	c.cursor = 0
	c.previous = domain.Initial
	c.history = nil
	c.status = domain.StatusRunning
	c.highlighted = domain.RuleInitial
	if len(c.solution.Path) == 0 {
		c.status = domain.StatusFinished
	}
}

// Next replays the next state of the path.
// The first call replays (0,0) itself, so step 0 is the initial state.
func (c *Controller) Next() (domain.Step, error) {
	return c.NextContext(context.Background())
}

// NextContext is Next with a context forwarded to the OnStep hook.
func (c *Controller) NextContext(ctx context.Context) (domain.Step, error) {
	switch {
	case c.status == domain.StatusFinished || (c.status == domain.StatusRunning && c.Done()):
		c.status = domain.StatusFinished
		return domain.Step{}, domain.ErrPlaybackFinished
	case c.status != domain.StatusRunning:
		return domain.Step{}, domain.ErrNotRunning
	}

	step := c.replay(c.cursor, c.previous)

	c.previous = step.Current
	c.cursor++
	c.highlighted = step.Rule
	if step.Reached() {
		c.highlighted = step.Goal
	}
	if c.Done() {
		c.status = domain.StatusFinished
	}
	c.history = append(c.history, step)

	if c.hooks.OnStep != nil {
		c.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
			SessionID: c.sessionID,
			Step:      step,
		})
	}
	return step, nil
}

// replay builds the step at index, coming from prev.
func (c *Controller) replay(index int, prev domain.JugState) domain.Step {
	curr := c.solution.Path[index]
	caps := c.solution.Problem.Capacities

	// (0,0) may only precede the first real move: index 0 replays the start
	// itself and index 1 leaves it.
	if prev.IsInitial() && index > 1 {
		c.logger.Warn("initial state recurred inside path; classifying as initial",
			"session_id", c.sessionID,
			"index", index,
			"current", curr.String(),
		)
	}

	rule := classify.Classify(prev, curr, caps)
	step := domain.Step{
		Index:       index,
		Previous:    prev,
		Current:     curr,
		Rule:        rule,
		Explanation: domain.Explain(index, prev, curr, rule),
	}
	if goal, ok := classify.GoalRule(curr, c.solution.Problem.Target); ok {
		step.Goal = goal
	}
	return step
}

// Stop pauses the replay; Next is refused until Resume or Start.
func (c *Controller) Stop() {
	if c.status == domain.StatusRunning {
		c.status = domain.StatusStopped
	}
}

// Resume continues a stopped replay.
func (c *Controller) Resume() error {
	if c.status != domain.StatusStopped {
		return domain.ErrNotRunning
	}
	c.status = domain.StatusRunning
	return nil
}

// Reset rewinds to the initial state and clears the highlight.
func (c *Controller) Reset() {
	c.cursor = 0
	c.previous = domain.Initial
	c.history = nil
	c.status = domain.StatusIdle
	c.highlighted = domain.RuleNone
}

// Steps yields every step of a full replay without touching the controller.
func (c *Controller) Steps() iter.Seq[domain.Step] {
	return func(yield func(domain.Step) bool) {
		prev := domain.Initial
		for i := range c.solution.Path {
			step := c.replay(i, prev)
			if !yield(step) {
				return
			}
			prev = step.Current
		}
	}
}

// History returns the steps replayed since the last Start or Reset.
func (c *Controller) History() []domain.Step {
	return append([]domain.Step(nil), c.history...)
}

// Snapshot returns the serialisable state of the controller.
func (c *Controller) Snapshot() domain.Playback {
	return domain.Playback{
		SessionID:   c.sessionID,
		Solution:    c.solution,
		Cursor:      c.cursor,
		Previous:    c.previous,
		Status:      c.status,
		Highlighted: c.highlighted,
		History:     c.History(),
	}
}
