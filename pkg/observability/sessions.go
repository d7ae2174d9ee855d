package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/waterjug/internal/logging"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

const collectTimeout = 2 * time.Second

// sessionCollector reports stored sessions per playback status at scrape time.
type sessionCollector struct {
	counter ports.StatusCounter
	desc    *prometheus.Desc
	logger  *slog.Logger
}

// WatchSessions registers the waterjug_sessions gauge, read from counter on
// every scrape.
func (m *Metrics) WatchSessions(counter ports.StatusCounter, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	return m.registry.Register(&sessionCollector{
		counter: counter,
		logger:  logger,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "sessions"),
			"Stored playback sessions, by status",
			[]string{"status"}, nil,
		),
	})
}

func (c *sessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *sessionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := c.counter.CountByStatus(ctx)
	if err != nil {
		c.logger.Warn("failed to count sessions", "err", err)
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	for _, status := range []domain.PlaybackStatus{
		domain.StatusIdle, domain.StatusRunning, domain.StatusStopped, domain.StatusFinished,
	} {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(counts[status]), string(status))
	}
}
