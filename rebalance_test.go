package peergrade

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// seedProfiles creates n flexible reviewer profiles with ids starting at 100.
func seedProfiles(t *testing.T, env *testEnv, n int) {
	t.Helper()

	ctx := context.Background()
	for i := range n {
		p := types.NewReviewerProfile(1, int64(100+i))
		require.NoError(t, env.store.PutProfile(ctx, p))
	}
}

func TestTopicTarget(t *testing.T) {
	env := newTestEnv(t, TestConfig())

	require.Equal(t, 6, env.eng.topicTarget(1), "single student per topic uses the base target")
	require.Equal(t, 10, env.eng.topicTarget(2))
	require.Equal(t, 25, env.eng.topicTarget(5))
}

func TestRebalanceManual(t *testing.T) {
	ctx := context.Background()

	t.Run("tops up each topic to the fixed target", func(t *testing.T) {
		env := newTestEnv(t, TestConfig(), WithRand(rand.New(rand.NewSource(1))))
		seedProfiles(t, env, 15)

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID:            1,
			Mode:                   types.DistributionManual,
			Topics:                 []string{"graphs", "trees"},
			StudentsPerTopicTarget: 1, // target of 6 per topic
		})
		require.NoError(t, err)

		byTopic := map[string]int{}
		flexible := 0
		profiles, err := env.store.ListProfiles(ctx, 1)
		require.NoError(t, err)
		for _, p := range profiles {
			if p.Affinity == types.AffinityFixed {
				byTopic[p.AffinityTopic]++
			} else {
				flexible++
			}
		}

		require.Equal(t, 6, byTopic["graphs"])
		require.Equal(t, 6, byTopic["trees"])
		require.Equal(t, 3, flexible)
	})

	t.Run("promotions draw only from flexible reviewers", func(t *testing.T) {
		env := newTestEnv(t, TestConfig(), WithRand(rand.New(rand.NewSource(1))))
		seedProfiles(t, env, 8)

		// Two reviewers already fixed to an unrelated topic.
		for _, uid := range []int64{200, 201} {
			p := types.NewReviewerProfile(1, uid)
			p.Affinity = types.AffinityFixed
			p.AffinityTopic = "heaps"
			require.NoError(t, env.store.PutProfile(ctx, p))
		}

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID:            1,
			Mode:                   types.DistributionManual,
			Topics:                 []string{"graphs"},
			StudentsPerTopicTarget: 1,
		})
		require.NoError(t, err)

		for _, uid := range []int64{200, 201} {
			p := env.profile(t, uid)
			require.Equal(t, "heaps", p.AffinityTopic, "fixed reviewers of other topics untouched")
		}
	})

	t.Run("demotes excess fixed reviewers by ascending user id", func(t *testing.T) {
		cfg := TestConfig()
		cfg.TopicTargetBase = 2
		env := newTestEnv(t, cfg, WithRand(rand.New(rand.NewSource(1))))

		for _, uid := range []int64{100, 101, 102, 103} {
			p := types.NewReviewerProfile(1, uid)
			p.Affinity = types.AffinityFixed
			p.AffinityTopic = "graphs"
			require.NoError(t, env.store.PutProfile(ctx, p))
		}

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID:            1,
			Mode:                   types.DistributionManual,
			Topics:                 []string{"graphs"},
			StudentsPerTopicTarget: 1, // target of 2
		})
		require.NoError(t, err)

		require.Equal(t, types.AffinityFlexible, env.profile(t, 100).Affinity)
		require.Equal(t, types.AffinityFlexible, env.profile(t, 101).Affinity)
		require.Equal(t, types.AffinityFixed, env.profile(t, 102).Affinity)
		require.Equal(t, types.AffinityFixed, env.profile(t, 103).Affinity)
	})

	t.Run("rejects missing topics or target", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID: 1, Mode: types.DistributionManual, StudentsPerTopicTarget: 1,
		})
		require.ErrorIs(t, err, ErrInvalidConfig)

		err = env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID: 1, Mode: types.DistributionManual, Topics: []string{"graphs"},
		})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestRebalanceRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("marks discussions defining and round-robins reviewers", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())
		seedProfiles(t, env, 5)
		env.discs.Add(&types.Discussion{ID: 1, PeerforumID: 1, TopicName: "graphs"})
		env.discs.Add(&types.Discussion{ID: 2, PeerforumID: 1, TopicName: "trees"})

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID: 1,
			Mode:        types.DistributionRandom,
			Topics:      []string{"graphs", "trees"},
		})
		require.NoError(t, err)

		for _, id := range []int64{1, 2} {
			d, err := env.discs.Discussion(ctx, id)
			require.NoError(t, err)
			require.True(t, d.TopicDefining)
		}

		// Ascending user id order: 100 graphs, 101 trees, 102 graphs, ...
		require.Equal(t, "graphs", env.profile(t, 100).AffinityTopic)
		require.Equal(t, "trees", env.profile(t, 101).AffinityTopic)
		require.Equal(t, "graphs", env.profile(t, 102).AffinityTopic)
		require.Equal(t, "trees", env.profile(t, 103).AffinityTopic)
		require.Equal(t, "graphs", env.profile(t, 104).AffinityTopic)

		for _, uid := range []int64{100, 101, 102, 103, 104} {
			require.Equal(t, types.AffinityFixed, env.profile(t, uid).Affinity)
		}
	})

	t.Run("requires topics", func(t *testing.T) {
		env := newTestEnv(t, TestConfig())

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID: 1, Mode: types.DistributionRandom,
		})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestRebalanceOff(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t, TestConfig())
	env.discs.Add(&types.Discussion{ID: 1, PeerforumID: 1, TopicName: "graphs", TopicDefining: true})

	p := types.NewReviewerProfile(1, 100)
	p.Affinity = types.AffinityFixed
	p.AffinityTopic = "graphs"
	require.NoError(t, env.store.PutProfile(ctx, p))

	err := env.eng.Rebalance(ctx, TopicDistributionConfig{
		PeerforumID: 1,
		Mode:        types.DistributionOff,
	})
	require.NoError(t, err)

	d, err := env.discs.Discussion(ctx, 1)
	require.NoError(t, err)
	require.False(t, d.TopicDefining)

	got := env.profile(t, 100)
	require.Equal(t, types.AffinityFlexible, got.Affinity)
	require.Empty(t, got.AffinityTopic)
}

func TestRebalanceMutualExclusion(t *testing.T) {
	env := newTestEnv(t, TestConfig())

	// Hold the rebalance lock the way a running pass would.
	require.True(t, env.eng.rebalanceMu.TryLock())
	defer env.eng.rebalanceMu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		err = env.eng.Rebalance(context.Background(), TopicDistributionConfig{
			PeerforumID: 1, Mode: types.DistributionOff,
		})
	}()
	wg.Wait()

	require.ErrorIs(t, err, ErrRebalanceInProgress)
}

func TestRebalanceDeterministicSeed(t *testing.T) {
	ctx := context.Background()

	// Two engines with the same forum identity and no injected source make
	// identical promotion picks.
	run := func() map[int64]string {
		env := newTestEnv(t, TestConfig())
		seedProfiles(t, env, 10)

		err := env.eng.Rebalance(ctx, TopicDistributionConfig{
			PeerforumID:            1,
			Mode:                   types.DistributionManual,
			Topics:                 []string{"graphs"},
			StudentsPerTopicTarget: 1,
		})
		require.NoError(t, err)

		topics := make(map[int64]string)
		profiles, err := env.store.ListProfiles(ctx, 1)
		require.NoError(t, err)
		for _, p := range profiles {
			if p.Affinity == types.AffinityFixed {
				topics[p.UserID] = p.AffinityTopic
			}
		}

		return topics
	}

	require.Equal(t, run(), run())
}
