package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

func TestMemoryStore(t *testing.T) {
	runProfileStoreTests(t, func(_ *testing.T) types.ProfileStore {
		return NewMemory()
	})
}

func TestMemoryStoreSnapshots(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	p := types.NewReviewerProfile(1, 100)
	require.NoError(t, p.AssignPending(10))
	require.NoError(t, s.PutProfile(ctx, p))

	// Mutating the caller's copy after Put must not leak into the store.
	require.NoError(t, p.AssignPending(11))

	got, err := s.Profile(ctx, 1, 100)
	require.NoError(t, err)
	require.False(t, got.Pending.Has(11))

	// Nor may mutating a read snapshot.
	got.Pending.Add(12)
	again, err := s.Profile(ctx, 1, 100)
	require.NoError(t, err)
	require.False(t, again.Pending.Has(12))
}
