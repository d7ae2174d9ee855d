package observability_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/waterjug/pkg/adapters/sqlite"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_WatchSessions(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Save(ctx, "a", &domain.Playback{Status: domain.StatusRunning}))
	require.NoError(t, store.Save(ctx, "b", &domain.Playback{Status: domain.StatusFinished}))
	require.NoError(t, store.Save(ctx, "c", &domain.Playback{Status: domain.StatusFinished}))

	metrics := observability.NewMetrics()
	require.NoError(t, metrics.WatchSessions(store, nil))

	expected := `
# HELP waterjug_sessions Stored playback sessions, by status
# TYPE waterjug_sessions gauge
waterjug_sessions{status="finished"} 2
waterjug_sessions{status="idle"} 0
waterjug_sessions{status="running"} 1
waterjug_sessions{status="stopped"} 0
`
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "waterjug_sessions"))
}

type failingCounter struct{}

func (failingCounter) CountByStatus(context.Context) (map[domain.PlaybackStatus]int, error) {
	return nil, errors.New("database is closed")
}

func TestMetrics_WatchSessions_Error(t *testing.T) {
	metrics := observability.NewMetrics()
	require.NoError(t, metrics.WatchSessions(failingCounter{}, nil))

	_, err := metrics.Registry().Gather()
	assert.ErrorContains(t, err, "database is closed")
}
