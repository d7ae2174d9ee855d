package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/waterjug/pkg/adapters/file"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.SessionStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	store := file.New(dir)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists as empty")

	require.NoError(t, store.Save(ctx, "abc", &domain.Playback{SessionID: "abc", Status: domain.StatusIdle}))
	_, err = os.Stat(filepath.Join(dir, "abc.json"))
	require.NoError(t, err)

	// Stray temp files from an interrupted save are not sessions.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-abc-123.json"), []byte("{"), 0644))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, ids)
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	store := file.New(t.TempDir())

	for _, id := range []string{"", "../escape", "a/b", ".."} {
		assert.Error(t, store.Save(ctx, id, &domain.Playback{}), id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0644))

	_, err := file.New(dir).Load(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
