package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/waterjug/pkg/adapters/memory"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/playback"
	"github.com/aretw0/waterjug/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_LoadOrStart(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sm := runner.NewSessionManager(store)

	starts := 0
	start := func(context.Context) (*playback.Controller, error) {
		starts++
		return controller(4, 3, 2), nil
	}

	// New ID: started and reserved in the store immediately.
	ctrl, loaded, err := sm.LoadOrStart(ctx, "demo", start)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 1, starts)

	saved, err := store.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, saved.Status)
	assert.Equal(t, "demo", saved.SessionID)

	ctrl.Start()
	_, err = ctrl.Next()
	require.NoError(t, err)
	_, err = ctrl.Next()
	require.NoError(t, err)
	require.NoError(t, sm.Save(ctx, "demo", ctrl))

	// Same ID again: progress is kept and start is not called.
	var stepped int
	hooks := domain.LifecycleHooks{OnStep: func(context.Context, *domain.StepEvent) { stepped++ }}
	again, loaded, err := sm.LoadOrStart(ctx, "demo", start, playback.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, 1, starts)
	assert.Equal(t, 2, again.Cursor())
	assert.Equal(t, domain.StatusRunning, again.Status())

	step, err := again.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, step.Index)
	assert.Equal(t, 1, stepped, "options reach restored controllers")
}

func TestSessionManager_Ephemeral(t *testing.T) {
	sm := runner.NewSessionManager(memory.NewStore())
	ctrl, loaded, err := sm.LoadOrStart(context.Background(), "", func(context.Context) (*playback.Controller, error) {
		return controller(4, 3, 2), nil
	})
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.NotNil(t, ctrl)

	ids, err := sm.Store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSessionManager_Errors(t *testing.T) {
	ctx := context.Background()
	sm := runner.NewSessionManager(memory.NewStore())

	_, err := sm.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	boom := errors.New("unsolvable")
	_, _, err = sm.LoadOrStart(ctx, "fresh", func(context.Context) (*playback.Controller, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = sm.Store.Load(ctx, "fresh")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "a failed start does not reserve the ID")
}
