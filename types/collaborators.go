package types

import (
	"context"
	"fmt"
	"time"
)

// Role is a user's role within a course.
type Role int

const (
	// RoleStudent marks enrolled students; only student-authored submissions
	// are auto-assigned and only student reviewers auto-expire.
	RoleStudent Role = iota

	// RoleStaff marks teachers and other non-student graders.
	RoleStaff
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleStaff:
		return "staff"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// CapabilityViewAllGrades is the permission consumed by display-side expiry
// checks. Holding it never alters persisted lifecycle state.
const CapabilityViewAllGrades = "peerforum:viewallpeergrades"

// SubmissionRepository provides read access to submissions and write access
// to their derived reviewer sets. Owned by the surrounding application.
type SubmissionRepository interface {
	// Submission fetches a submission by id.
	//
	// Returns:
	//   - *Submission: The submission
	//   - error: ErrNotFound if no such submission exists
	Submission(ctx context.Context, id int64) (*Submission, error)

	// Children lists direct replies to the given submission.
	Children(ctx context.Context, parentID int64) ([]*Submission, error)

	// SetReviewers persists the derived reviewer set onto a submission.
	SetReviewers(ctx context.Context, submissionID int64, reviewers IDSet) error
}

// DiscussionRepository provides access to discussion threads and their
// topic-defining flags.
type DiscussionRepository interface {
	// Discussion fetches a discussion by id.
	//
	// Returns:
	//   - *Discussion: The discussion
	//   - error: ErrNotFound if no such discussion exists
	Discussion(ctx context.Context, id int64) (*Discussion, error)

	// ListByPeerforum lists all discussions of a forum instance.
	ListByPeerforum(ctx context.Context, peerforumID int64) ([]*Discussion, error)

	// SetTopicDefining flips the topic-defining flag on a discussion.
	SetTopicDefining(ctx context.Context, discussionID int64, defining bool) error
}

// Roster is the course enrollment and role registry.
type Roster interface {
	// EnrolledStudents returns the ids of users enrolled as students.
	EnrolledStudents(ctx context.Context, courseID int64) (IDSet, error)

	// RoleOf returns the role of a user within a course.
	RoleOf(ctx context.Context, courseID, userID int64) (Role, error)
}

// PermissionOracle answers capability checks.
//
// The engine consumes permission decisions only for display-time expiry
// bypass; permissions never gate mutations.
type PermissionOracle interface {
	HasCapability(ctx context.Context, userID int64, capability string, courseID int64) (bool, error)
}

// ConflictRepository exposes conflict-of-interest groups.
type ConflictRepository interface {
	// ConflictsOf returns every user sharing a conflict group with userID,
	// excluding userID itself. An empty set means no conflicts.
	ConflictsOf(ctx context.Context, courseID, userID int64) (IDSet, error)
}

// Clock abstracts time for deterministic testing.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now invokes the wrapped function.
func (f ClockFunc) Now() time.Time { return f() }

// ProfileStore persists ReviewerProfiles and AssignmentRecords.
//
// Implementations must treat reads as snapshots: returned profiles are owned
// by the caller and writes only take effect through PutProfile. The engine
// serializes mutations per profile; stores do not need internal per-key
// locking beyond basic thread safety.
type ProfileStore interface {
	// Profile fetches the profile for (courseID, userID).
	//
	// Returns:
	//   - *ReviewerProfile: The profile
	//   - error: ErrNotFound if the user has no profile yet
	Profile(ctx context.Context, courseID, userID int64) (*ReviewerProfile, error)

	// PutProfile creates or replaces a profile.
	PutProfile(ctx context.Context, profile *ReviewerProfile) error

	// ListProfiles returns every profile in a course.
	ListProfiles(ctx context.Context, courseID int64) ([]*ReviewerProfile, error)

	// PutRecord creates or replaces an assignment record.
	PutRecord(ctx context.Context, record *AssignmentRecord) error

	// Record fetches the assignment record for a pending match.
	//
	// Returns:
	//   - *AssignmentRecord: The record
	//   - error: ErrNotFound if no such match is pending
	Record(ctx context.Context, courseID, submissionID, reviewerID int64) (*AssignmentRecord, error)

	// DeleteRecord removes an assignment record. Deleting a missing record
	// is not an error.
	DeleteRecord(ctx context.Context, courseID, submissionID, reviewerID int64) error

	// ListRecords returns every assignment record in a course.
	ListRecords(ctx context.Context, courseID int64) ([]*AssignmentRecord, error)
}
