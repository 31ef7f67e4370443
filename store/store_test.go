package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// runProfileStoreTests exercises the ProfileStore contract against any
// implementation.
func runProfileStoreTests(t *testing.T, newStore func(t *testing.T) types.ProfileStore) {
	ctx := context.Background()
	assignedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("profile round-trip", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Profile(ctx, 1, 100)
		require.ErrorIs(t, err, types.ErrNotFound)

		p := types.NewReviewerProfile(1, 100)
		require.NoError(t, p.AssignPending(10))
		require.NoError(t, p.AssignPending(11))
		require.NoError(t, p.CompletePending(10))
		p.Affinity = types.AffinityFixed
		p.AffinityTopic = "graphs"
		require.NoError(t, s.PutProfile(ctx, p))

		got, err := s.Profile(ctx, 1, 100)
		require.NoError(t, err)
		require.Equal(t, p.Pending, got.Pending)
		require.Equal(t, p.Completed, got.Completed)
		require.Equal(t, 2, got.Workload)
		require.Equal(t, types.AffinityFixed, got.Affinity)
		require.Equal(t, "graphs", got.AffinityTopic)
		require.NoError(t, got.CheckInvariants())
	})

	t.Run("put replaces the profile", func(t *testing.T) {
		s := newStore(t)

		p := types.NewReviewerProfile(1, 100)
		require.NoError(t, s.PutProfile(ctx, p))

		p.IsBlocked = true
		require.NoError(t, s.PutProfile(ctx, p))

		got, err := s.Profile(ctx, 1, 100)
		require.NoError(t, err)
		require.True(t, got.IsBlocked)
	})

	t.Run("list profiles scopes by course", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.PutProfile(ctx, types.NewReviewerProfile(1, 100)))
		require.NoError(t, s.PutProfile(ctx, types.NewReviewerProfile(1, 101)))
		require.NoError(t, s.PutProfile(ctx, types.NewReviewerProfile(2, 100)))

		profiles, err := s.ListProfiles(ctx, 1)
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		for _, p := range profiles {
			require.Equal(t, int64(1), p.CourseID)
		}

		empty, err := s.ListProfiles(ctx, 9)
		require.NoError(t, err)
		require.Empty(t, empty)
	})

	t.Run("record round-trip", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Record(ctx, 1, 10, 100)
		require.ErrorIs(t, err, types.ErrNotFound)

		rec := &types.AssignmentRecord{
			CourseID: 1, SubmissionID: 10, ReviewerID: 100, AssignedAt: assignedAt,
		}
		require.NoError(t, s.PutRecord(ctx, rec))

		got, err := s.Record(ctx, 1, 10, 100)
		require.NoError(t, err)
		require.True(t, got.AssignedAt.Equal(assignedAt))
	})

	t.Run("delete record is idempotent", func(t *testing.T) {
		s := newStore(t)

		rec := &types.AssignmentRecord{
			CourseID: 1, SubmissionID: 10, ReviewerID: 100, AssignedAt: assignedAt,
		}
		require.NoError(t, s.PutRecord(ctx, rec))
		require.NoError(t, s.DeleteRecord(ctx, 1, 10, 100))

		_, err := s.Record(ctx, 1, 10, 100)
		require.ErrorIs(t, err, types.ErrNotFound)

		require.NoError(t, s.DeleteRecord(ctx, 1, 10, 100), "missing record is not an error")
	})

	t.Run("list records scopes by course", func(t *testing.T) {
		s := newStore(t)

		for _, rec := range []*types.AssignmentRecord{
			{CourseID: 1, SubmissionID: 10, ReviewerID: 100, AssignedAt: assignedAt},
			{CourseID: 1, SubmissionID: 10, ReviewerID: 101, AssignedAt: assignedAt},
			{CourseID: 2, SubmissionID: 20, ReviewerID: 100, AssignedAt: assignedAt},
		} {
			require.NoError(t, s.PutRecord(ctx, rec))
		}

		records, err := s.ListRecords(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 2)

		empty, err := s.ListRecords(ctx, 9)
		require.NoError(t, err)
		require.Empty(t, empty)
	})
}
