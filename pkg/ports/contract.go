package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractPlayback(sessionID string) *domain.Playback {
	path := domain.Path{{}, {Jug2: 3}, {Jug1: 3}, {Jug1: 3, Jug2: 3}, {Jug1: 4, Jug2: 2}}
	return &domain.Playback{
		SessionID: sessionID,
		Solution: domain.Solution{
			Problem: domain.Problem{Capacities: domain.Capacities{Jug1: 4, Jug2: 3}, Target: 2},
			Path:    path,
			Goal:    domain.RuleGoalJug2,
		},
		Cursor:      2,
		Previous:    domain.JugState{Jug2: 3},
		Status:      domain.StatusStopped,
		Highlighted: domain.RuleInitial,
		History: []domain.Step{
			{Index: 0, Current: domain.JugState{}, Rule: domain.RuleInitial, Explanation: domain.Explain(0, domain.JugState{}, domain.JugState{}, domain.RuleInitial)},
			{Index: 1, Current: domain.JugState{Jug2: 3}, Rule: domain.RuleInitial, Explanation: domain.Explain(1, domain.JugState{}, domain.JugState{Jug2: 3}, domain.RuleInitial)},
		},
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		pb := contractPlayback(sessionID)

		err := store.Save(ctx, sessionID, pb)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, pb, loaded, "snapshot must survive the round trip unchanged")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		pb := contractPlayback(sessionID)
		pb.Cursor = 5
		pb.Status = domain.StatusFinished
		require.NoError(t, store.Save(ctx, sessionID, pb))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 5, loaded.Cursor)
		assert.Equal(t, domain.StatusFinished, loaded.Status)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, contractPlayback(sessionID)))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Delete of a missing session is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, contractPlayback(id1)))
		require.NoError(t, store.Save(ctx, id2, contractPlayback(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
