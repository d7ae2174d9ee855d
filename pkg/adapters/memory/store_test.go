package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/waterjug/pkg/adapters/memory"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	pb := &domain.Playback{
		SessionID: "a",
		Solution:  domain.Solution{Path: domain.Path{{}, {Jug1: 4}}},
	}
	require.NoError(t, store.Save(ctx, "a", pb))

	pb.Solution.Path[1] = domain.JugState{Jug2: 9}

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.JugState{Jug1: 4}, loaded.Solution.Path[1])

	loaded.Solution.Path[1] = domain.JugState{Jug2: 7}
	again, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.JugState{Jug1: 4}, again.Solution.Path[1])
}
