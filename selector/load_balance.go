package selector

import (
	"sort"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// LoadBalance implements greedy static load balancing.
//
// It is not a fair round-robin queue: repeated calls in the same instant can
// starve high-load users, but each call minimizes max-load growth locally.
type LoadBalance struct{}

var _ types.Selector = (*LoadBalance)(nil)

// NewLoadBalance creates a new load-balance selector.
//
// Returns:
//   - *LoadBalance: Initialized selector
//
// Example:
//
//	sel := selector.NewLoadBalance()
//	ids := sel.Select(selCtx, pool, 3)
func NewLoadBalance() *LoadBalance {
	return &LoadBalance{}
}

// Select picks the min(count, len(pool)) candidates with the lowest workload.
//
// The pool is sorted ascending by workload; ties are broken by ascending
// user id so selection is a total order. No candidate left unselected ever
// has a strictly lower workload than a selected one.
//
// Parameters:
//   - sel: Selection context (unused by this selector)
//   - pool: Eligible candidates
//   - count: Number of reviewers wanted
//
// Returns:
//   - []int64: Chosen reviewer ids, lowest workload first
func (s *LoadBalance) Select(_ types.SelectionContext, pool []types.Candidate, count int) []int64 {
	if count <= 0 || len(pool) == 0 {
		return []int64{}
	}

	sorted := sortByLoad(pool)
	if count > len(sorted) {
		count = len(sorted)
	}

	ids := make([]int64, count)
	for i := range count {
		ids[i] = sorted[i].UserID
	}

	return ids
}

// sortByLoad returns a copy of pool ordered ascending by workload, with ties
// broken by ascending user id. The upstream order is never relied upon.
func sortByLoad(pool []types.Candidate) []types.Candidate {
	sorted := make([]types.Candidate, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Workload != sorted[j].Workload {
			return sorted[i].Workload < sorted[j].Workload
		}

		return sorted[i].UserID < sorted[j].UserID
	})

	return sorted
}
