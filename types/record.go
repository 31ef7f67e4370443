package types

import "time"

// AssignmentRecord is one currently-pending reviewer/submission match.
//
// Records exist solely to compute elapsed time for expiration: one is created
// when a match is made and deleted when the match completes, expires or is
// explicitly unassigned.
type AssignmentRecord struct {
	// CourseID scopes the record for batch sweeps.
	CourseID int64 `json:"courseId"`

	// SubmissionID is the submission under review.
	SubmissionID int64 `json:"submissionId"`

	// ReviewerID is the assigned reviewer.
	ReviewerID int64 `json:"reviewerId"`

	// AssignedAt is when the match was made.
	AssignedAt time.Time `json:"assignedAt"`
}

// Deadline returns the instant the match expires given a grading window.
func (r *AssignmentRecord) Deadline(window time.Duration) time.Time {
	return r.AssignedAt.Add(window)
}

// ConflictGroup is a set of users who must never be matched as
// reviewer/author pairs. Static reference data, externally managed.
type ConflictGroup struct {
	CourseID int64 `json:"courseId"`
	Members  IDSet `json:"members"`
}

// DistributionMode selects the rebalancer batch mode.
type DistributionMode int

const (
	// DistributionOff disables threaded grading and clears all affinity.
	DistributionOff DistributionMode = iota

	// DistributionManual assigns fixed reviewer targets per admin-chosen topic.
	DistributionManual

	// DistributionRandom round-robins reviewers across topics.
	DistributionRandom
)

// String returns a human-readable mode name.
func (m DistributionMode) String() string {
	switch m {
	case DistributionOff:
		return "off"
	case DistributionManual:
		return "manual"
	case DistributionRandom:
		return "random"
	default:
		return "unknown"
	}
}

// TopicDistributionConfig drives a single rebalance pass.
//
// The three modes are mutually exclusive configuration transitions; a mode
// switch always performs a full batch pass over the course's reviewers and
// discussions.
type TopicDistributionConfig struct {
	// PeerforumID is the forum instance being rebalanced.
	PeerforumID int64 `json:"peerforumId"`

	// Mode selects the batch operation.
	Mode DistributionMode `json:"mode"`

	// Topics lists the topic names to distribute reviewers across.
	// Required for manual and random modes.
	Topics []string `json:"topics,omitempty"`

	// MinReviewers and MaxReviewers mirror the forum's reviewer bounds at
	// the time the configuration change was made.
	MinReviewers int `json:"minReviewers"`
	MaxReviewers int `json:"maxReviewers"`

	// StudentsPerTopicTarget feeds the manual-mode fixed reviewer target.
	StudentsPerTopicTarget int `json:"studentsPerTopicTarget"`
}
