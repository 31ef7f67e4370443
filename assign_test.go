package peergrade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

func TestAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("matches up to MaxReviewers lowest-load students", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(100, 101, 102, 103, 104)
		env.addSubmission(10, 100, 1, 0)

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{101, 102, 103}, ids, "zero workload ties break by ascending user id")

		sub, err := env.subs.Submission(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, types.NewIDSet(101, 102, 103), sub.Reviewers)

		for _, uid := range ids {
			p := env.profile(t, uid)
			require.True(t, p.Pending.Has(10))
			require.Equal(t, 1, p.Workload)
			require.NoError(t, p.CheckInvariants())

			rec, err := env.store.Record(ctx, 1, 10, uid)
			require.NoError(t, err)
			require.Equal(t, testEpoch, rec.AssignedAt)
		}
	})

	t.Run("idempotent per submission", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(100, 101, 102, 103)
		env.addSubmission(10, 100, 1, 0)

		first, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)

		second, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, first, second)

		for _, uid := range first {
			require.Equal(t, 1, env.profile(t, uid).Workload, "repeat call adds no workload")
		}
	})

	t.Run("non-student author is a no-op", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(101, 102)
		env.addSubmission(10, 900, 1, 0) // 900 not enrolled, reported as staff

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, ids)

		sub, err := env.subs.Submission(ctx, 10)
		require.NoError(t, err)
		require.Zero(t, sub.Reviewers.Len())
	})

	t.Run("author and conflicted users are excluded", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(100, 101, 102, 103)
		env.conflicts.AddGroup(1, 100, 101) // author 100 conflicts with 101
		env.addSubmission(10, 100, 1, 0)

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{102, 103}, ids)
	})

	t.Run("blocked reviewers are excluded", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(100, 101, 102, 103)
		require.NoError(t, env.eng.BlockReviewer(ctx, 101))
		env.addSubmission(10, 100, 1, 0)

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{102, 103}, ids)
	})

	t.Run("empty pool is not an error", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(100)
		env.addSubmission(10, 100, 1, 0)

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Empty(t, ids)
	})

	t.Run("missing submission", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())

		_, err := env.eng.Assign(ctx, 999)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("prefers lower workload reviewers", func(t *testing.T) {
		cfg := TestConfig()
		cfg.MaxReviewers = 2
		env := newTestEnv(t, cfg)
		env.enroll(100, 101, 102, 103)

		busy := types.NewReviewerProfile(1, 101)
		require.NoError(t, busy.AssignPending(90))
		require.NoError(t, busy.AssignPending(91))
		require.NoError(t, env.store.PutProfile(ctx, busy))

		env.addSubmission(10, 100, 1, 0)

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{102, 103}, ids, "loaded reviewer 101 passed over")
	})
}

func TestAssignReplyInheritance(t *testing.T) {
	ctx := context.Background()

	inheritCfg := func() Config {
		cfg := TestConfig()
		cfg.AutoAssignReplies = true

		return cfg
	}

	t.Run("reply inherits nearest ancestor with reviewers", func(t *testing.T) {
		env := newTestEnv(t, inheritCfg())
		env.enroll(100, 101, 102, 103, 104)
		env.addSubmission(10, 100, 1, 0)

		rootIDs, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.NotEmpty(t, rootIDs)

		// Two levels of replies; 11 stays unassigned so 12 must walk past it.
		env.addSubmission(11, 101, 1, 10)
		env.addSubmission(12, 102, 1, 11)

		ids, err := env.eng.Assign(ctx, 12)
		require.NoError(t, err)
		require.ElementsMatch(t, rootIDs, ids)

		for _, uid := range ids {
			require.True(t, env.profile(t, uid).Pending.Has(12))
		}
	})

	t.Run("reply with no assigned ancestor falls back to selection", func(t *testing.T) {
		env := newTestEnv(t, inheritCfg())
		env.enroll(100, 101, 102, 103)
		env.addSubmission(10, 100, 1, 0)
		env.addSubmission(11, 101, 1, 10)

		ids, err := env.eng.Assign(ctx, 11)
		require.NoError(t, err)
		require.Equal(t, []int64{100, 102, 103}, ids, "author 101 excluded, root had no reviewers")
	})

	t.Run("inheritance disabled treats replies like roots", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		env.enroll(100, 101, 102, 103, 104)
		env.addSubmission(10, 100, 1, 0)

		_, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)

		env.addSubmission(11, 104, 1, 10)
		ids, err := env.eng.Assign(ctx, 11)
		require.NoError(t, err)
		require.NotContains(t, ids, int64(104))
	})

	t.Run("cycle in parent chain is an integrity violation", func(t *testing.T) {
		env := newTestEnv(t, inheritCfg())
		env.enroll(100, 101)
		env.addSubmission(11, 100, 1, 12)
		env.addSubmission(12, 100, 1, 11)

		_, err := env.eng.Assign(ctx, 11)
		require.ErrorIs(t, err, ErrIntegrityViolation)
	})

	t.Run("excessive chain depth is an integrity violation", func(t *testing.T) {
		cfg := inheritCfg()
		cfg.MaxAncestorDepth = 2
		env := newTestEnv(t, cfg)
		env.enroll(100, 101)
		env.addSubmission(10, 100, 1, 0)
		env.addSubmission(11, 100, 1, 10)
		env.addSubmission(12, 100, 1, 11)
		env.addSubmission(13, 100, 1, 12)

		_, err := env.eng.Assign(ctx, 13)
		require.ErrorIs(t, err, ErrIntegrityViolation)
	})
}

func TestAssignThreadedGrading(t *testing.T) {
	ctx := context.Background()

	t.Run("topic-defining discussion routes to fixed reviewers", func(t *testing.T) {
		cfg := TestConfig()
		cfg.ThreadedGrading = true
		cfg.MaxReviewers = 1
		env := newTestEnv(t, cfg)
		env.enroll(100, 101, 102)
		env.discs.Add(&types.Discussion{ID: 1, PeerforumID: 1, TopicName: "graphs", TopicDefining: true})

		fixed := types.NewReviewerProfile(1, 102)
		fixed.Affinity = types.AffinityFixed
		fixed.AffinityTopic = "graphs"
		require.NoError(t, env.store.PutProfile(ctx, fixed))

		env.addSubmission(10, 100, 1, 0)

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{102}, ids)
	})

	t.Run("missing discussion falls back to flexible preference", func(t *testing.T) {
		cfg := TestConfig()
		cfg.ThreadedGrading = true
		env := newTestEnv(t, cfg)
		env.enroll(100, 101, 102)
		env.addSubmission(10, 100, 1, 0) // discussion 1 never registered

		ids, err := env.eng.Assign(ctx, 10)
		require.NoError(t, err)
		require.Equal(t, []int64{101, 102}, ids)
	})
}
