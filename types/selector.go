package types

// Candidate is one eligible reviewer annotated with the load and affinity
// data the selectors need.
type Candidate struct {
	// UserID identifies the candidate reviewer.
	UserID int64

	// Workload is the candidate's current lifecycle workload counter.
	Workload int

	// Affinity and AffinityTopic mirror the candidate's profile settings.
	Affinity      AffinityType
	AffinityTopic string
}

// SelectionContext carries the submission being assigned and, when known,
// its discussion. Discussion may be nil when threaded grading is off or the
// discussion could not be resolved.
type SelectionContext struct {
	Submission *Submission
	Discussion *Discussion
}

// Selector picks reviewers from a candidate pool.
//
// Selector implementations should:
//   - Be deterministic (same input, same output)
//   - Never pick the same candidate twice
//   - Return at most min(count, len(pool)) ids
//   - Be stateless (no side effects)
//
// The eligibility filter runs before selection, so selectors may assume every
// candidate is allowed to review the submission.
type Selector interface {
	// Select returns the chosen reviewer ids in pick order.
	//
	// Parameters:
	//   - sel: Submission/discussion context for affinity decisions
	//   - pool: Eligible candidates (not mutated)
	//   - count: Number of reviewers wanted
	//
	// Returns:
	//   - []int64: Chosen reviewer ids, at most min(count, len(pool))
	Select(sel SelectionContext, pool []Candidate, count int) []int64
}
