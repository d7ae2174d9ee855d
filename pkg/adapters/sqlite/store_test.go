package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/waterjug/pkg/adapters/sqlite"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.SessionStore  = (*sqlite.Store)(nil)
	_ ports.HealthChecker = (*sqlite.Store)(nil)
	_ ports.StatusCounter = (*sqlite.Store)(nil)
)

func open(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, open(t))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "s1", &domain.Playback{SessionID: "s1", Status: domain.StatusRunning, Cursor: 3}))
	require.NoError(t, store.Close())

	// Migrations are idempotent on an existing database.
	store, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	pb, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, pb.Cursor)
}

func TestSQLiteStore_CountByStatus(t *testing.T) {
	ctx := context.Background()
	store := open(t)

	require.NoError(t, store.Save(ctx, "a", &domain.Playback{Status: domain.StatusRunning}))
	require.NoError(t, store.Save(ctx, "b", &domain.Playback{Status: domain.StatusRunning}))
	require.NoError(t, store.Save(ctx, "c", &domain.Playback{Status: domain.StatusFinished}))

	counts, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.PlaybackStatus]int{
		domain.StatusRunning:  2,
		domain.StatusFinished: 1,
	}, counts)
	assert.NoError(t, store.HealthCheck(ctx))

	require.NoError(t, store.Close())
	assert.Error(t, store.HealthCheck(ctx))
}

func TestSQLiteStore_RequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "")
	assert.Error(t, err)
}
