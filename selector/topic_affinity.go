package selector

import "github.com/TheMrKiko/peerforum-sub000/types"

// TopicAffinity implements topic-aware reviewer selection, used when the
// peerforum's threaded-grading flag is on.
//
// Unlike LoadBalance, which takes a prefix of the sorted pool in one shot,
// TopicAffinity makes one sequential choice at a time and re-evaluates the
// remaining candidates after each removal, because removing a candidate can
// change which topic match is next available.
type TopicAffinity struct{}

var _ types.Selector = (*TopicAffinity)(nil)

// NewTopicAffinity creates a new topic-affinity selector.
//
// Returns:
//   - *TopicAffinity: Initialized selector
func NewTopicAffinity() *TopicAffinity {
	return &TopicAffinity{}
}

// Select picks up to count reviewers, preferring topic matches.
//
// Each pick scans the load-sorted remaining pool:
//  1. If the submission's discussion is topic-defining, prefer candidates
//     fixed to the discussion's topic.
//  2. Otherwise, or once fixed matches are exhausted, prefer flexible
//     candidates.
//  3. Fall back to the lowest-load remaining candidate.
//
// The chosen candidate is removed from the pool before the next pick.
//
// Parameters:
//   - sel: Selection context; sel.Discussion may be nil
//   - pool: Eligible candidates
//   - count: Number of reviewers wanted
//
// Returns:
//   - []int64: Chosen reviewer ids in pick order
func (s *TopicAffinity) Select(sel types.SelectionContext, pool []types.Candidate, count int) []int64 {
	if count <= 0 || len(pool) == 0 {
		return []int64{}
	}

	topicDefining := sel.Discussion != nil && sel.Discussion.TopicDefining
	topic := ""
	if topicDefining {
		topic = sel.Discussion.TopicName
	}

	remaining := sortByLoad(pool)
	chosen := make([]int64, 0, count)

	for len(chosen) < count && len(remaining) > 0 {
		idx := -1
		if topicDefining {
			idx = indexWhere(remaining, func(c types.Candidate) bool {
				return c.Affinity == types.AffinityFixed && c.AffinityTopic == topic
			})
		}
		if idx < 0 {
			idx = indexWhere(remaining, func(c types.Candidate) bool {
				return c.Affinity == types.AffinityFlexible
			})
		}
		if idx < 0 {
			// Only off-topic fixed candidates remain.
			idx = 0
		}

		chosen = append(chosen, remaining[idx].UserID)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return chosen
}

// indexWhere returns the index of the first candidate matching pred, or -1.
func indexWhere(pool []types.Candidate, pred func(types.Candidate) bool) int {
	for i, c := range pool {
		if pred(c) {
			return i
		}
	}

	return -1
}
