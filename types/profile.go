package types

import "fmt"

// AffinityType describes how a reviewer is bound to discussion topics.
type AffinityType int

const (
	// AffinityFlexible means the reviewer can grade submissions on any topic.
	AffinityFlexible AffinityType = iota

	// AffinityFixed means the reviewer is locked to AffinityTopic.
	AffinityFixed
)

// String returns a human-readable affinity name.
func (a AffinityType) String() string {
	switch a {
	case AffinityFlexible:
		return "flexible"
	case AffinityFixed:
		return "fixed"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// ReviewerProfile is the per-(course, user) record of everything a user is
// doing as a reviewer: the four lifecycle sets, the workload counter and the
// topic-affinity settings.
//
// Lifecycle invariants, maintained by the mutators below:
//   - Pending, Completed, Blocked and Expired are pairwise disjoint; a
//     submission occupies exactly one lifecycle slot per reviewer.
//   - Workload == Pending.Len() + Completed.Len() + Blocked.Len() + Expired.Len()
//
// Profiles are created lazily on first assignment and never hard-deleted.
type ReviewerProfile struct {
	// CourseID and UserID identify the profile.
	CourseID int64 `json:"courseId"`
	UserID   int64 `json:"userId"`

	// Pending holds submissions assigned and not yet reviewed.
	Pending IDSet `json:"pending"`

	// Completed holds submissions the user has reviewed.
	Completed IDSet `json:"completed"`

	// Blocked holds submissions withheld from this reviewer.
	Blocked IDSet `json:"blocked"`

	// Expired holds submissions whose grading deadline lapsed unreviewed.
	Expired IDSet `json:"expired"`

	// IsBlocked excludes the user entirely from receiving new assignments.
	IsBlocked bool `json:"isBlocked"`

	// Workload counts submissions across all four lifecycle sets.
	Workload int `json:"workload"`

	// Affinity controls topic binding; AffinityTopic is meaningful only
	// when Affinity is AffinityFixed.
	Affinity      AffinityType `json:"affinity"`
	AffinityTopic string       `json:"affinityTopic,omitempty"`
}

// NewReviewerProfile creates an empty profile for (courseID, userID).
//
// Returns:
//   - *ReviewerProfile: Profile with empty lifecycle sets and zero workload
func NewReviewerProfile(courseID, userID int64) *ReviewerProfile {
	return &ReviewerProfile{
		CourseID:  courseID,
		UserID:    userID,
		Pending:   NewIDSet(),
		Completed: NewIDSet(),
		Blocked:   NewIDSet(),
		Expired:   NewIDSet(),
	}
}

// Clone returns a deep copy of the profile.
func (p *ReviewerProfile) Clone() *ReviewerProfile {
	c := *p
	c.Pending = p.Pending.Clone()
	c.Completed = p.Completed.Clone()
	c.Blocked = p.Blocked.Clone()
	c.Expired = p.Expired.Clone()

	return &c
}

// Tracks reports whether the submission occupies any lifecycle slot.
func (p *ReviewerProfile) Tracks(submissionID int64) bool {
	return p.Pending.Has(submissionID) ||
		p.Completed.Has(submissionID) ||
		p.Blocked.Has(submissionID) ||
		p.Expired.Has(submissionID)
}

// AssignPending adds a new submission to the pending set and bumps workload.
//
// Parameters:
//   - submissionID: Submission to track
//
// Returns:
//   - error: ErrIntegrityViolation if the submission already occupies a
//     lifecycle slot in this profile
func (p *ReviewerProfile) AssignPending(submissionID int64) error {
	if p.Tracks(submissionID) {
		return fmt.Errorf("%w: submission %d already tracked by reviewer %d",
			ErrIntegrityViolation, submissionID, p.UserID)
	}
	p.Pending.Add(submissionID)
	p.Workload++

	return nil
}

// CompletePending moves a submission from pending to completed.
// Workload is unchanged: the id moves between sets.
func (p *ReviewerProfile) CompletePending(submissionID int64) error {
	return p.movePending(submissionID, p.Completed, "completed")
}

// ExpirePending moves a submission from pending to expired.
func (p *ReviewerProfile) ExpirePending(submissionID int64) error {
	return p.movePending(submissionID, p.Expired, "expired")
}

// BlockPending moves a submission from pending to blocked.
func (p *ReviewerProfile) BlockPending(submissionID int64) error {
	return p.movePending(submissionID, p.Blocked, "blocked")
}

// RestoreBlocked moves a submission from blocked back to pending.
func (p *ReviewerProfile) RestoreBlocked(submissionID int64) error {
	if !p.Blocked.Remove(submissionID) {
		return fmt.Errorf("%w: submission %d not blocked for reviewer %d",
			ErrNotFound, submissionID, p.UserID)
	}
	p.Pending.Add(submissionID)

	return nil
}

// DropPending removes a pending submission entirely and decrements workload.
// Used when a match is explicitly unassigned.
func (p *ReviewerProfile) DropPending(submissionID int64) error {
	if !p.Pending.Remove(submissionID) {
		return fmt.Errorf("%w: submission %d not pending for reviewer %d",
			ErrNotFound, submissionID, p.UserID)
	}
	p.Workload--

	return nil
}

// movePending transfers a submission from the pending set to dst.
func (p *ReviewerProfile) movePending(submissionID int64, dst IDSet, slot string) error {
	if !p.Pending.Remove(submissionID) {
		return fmt.Errorf("%w: submission %d not pending for reviewer %d (move to %s)",
			ErrNotFound, submissionID, p.UserID, slot)
	}
	dst.Add(submissionID)

	return nil
}

// CheckInvariants verifies set disjointness and the workload counter.
//
// Returns:
//   - error: ErrIntegrityViolation describing the first violation found,
//     nil if the profile is consistent
func (p *ReviewerProfile) CheckInvariants() error {
	sets := []struct {
		name string
		set  IDSet
	}{
		{"pending", p.Pending},
		{"completed", p.Completed},
		{"blocked", p.Blocked},
		{"expired", p.Expired},
	}

	total := 0
	for i, a := range sets {
		total += a.set.Len()
		for _, b := range sets[i+1:] {
			if a.set.Intersects(b.set) {
				return fmt.Errorf("%w: reviewer %d sets %s and %s overlap",
					ErrIntegrityViolation, p.UserID, a.name, b.name)
			}
		}
	}

	if p.Workload != total {
		return fmt.Errorf("%w: reviewer %d workload %d != tracked submissions %d",
			ErrIntegrityViolation, p.UserID, p.Workload, total)
	}

	return nil
}
