package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "waterjug"

// Metrics holds the Prometheus collectors fed by the engine lifecycle hooks.
type Metrics struct {
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	solutionMoves  prometheus.Histogram
	steps          *prometheus.CounterVec
	goals          *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "searches_total",
				Help:      "Total number of searches, by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of the breadth-first search",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		solutionMoves: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "solution_moves",
				Help:      "Number of moves of the solutions found",
				Buckets:   prometheus.LinearBuckets(0, 2, 12),
			},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "playback_steps_total",
				Help:      "Playback steps replayed, by production rule",
			},
			[]string{"rule"},
		),
		goals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "playback_goals_total",
				Help:      "Playbacks that reached the target, by goal rule",
			},
			[]string{"rule"},
		),
	}

	registry.MustRegister(m.searches, m.searchDuration, m.solutionMoves, m.steps, m.goals)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record into m, chained after next.
func (m *Metrics) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSearchStart: next.OnSearchStart,
		OnSearchDone: func(ctx context.Context, e *domain.SearchEvent) {
			m.observeSearch(e)
			if next.OnSearchDone != nil {
				next.OnSearchDone(ctx, e)
			}
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.observeStep(e)
			if next.OnStep != nil {
				next.OnStep(ctx, e)
			}
		},
	}
}

func (m *Metrics) observeSearch(e *domain.SearchEvent) {
	outcome := "found"
	switch {
	case errors.Is(e.Err, domain.ErrTargetUnreachable):
		outcome = "unreachable"
	case e.Err != nil:
		outcome = "error"
	case !e.Found:
		outcome = "unreachable"
	}
	m.searches.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(e.Duration.Seconds())
	if e.Found {
		m.solutionMoves.Observe(float64(e.Moves))
	}
}

func (m *Metrics) observeStep(e *domain.StepEvent) {
	m.steps.WithLabelValues(e.Step.Rule.String()).Inc()
	if e.Step.Reached() {
		m.goals.WithLabelValues(e.Step.Goal.String()).Inc()
	}
}
