package peergrade

import "github.com/TheMrKiko/peerforum-sub000/types"

// Sentinel errors re-exported from the types package.
//
// Check with errors.Is; batch operations return aggregates built with
// errors.Join, so errors.Is still matches individual failures.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrConfiguration is returned when a required peerforum setting is
	// missing at the point an operation needs it.
	ErrConfiguration = types.ErrConfiguration

	// ErrNotFound is returned when a submission, profile or record does not exist.
	ErrNotFound = types.ErrNotFound

	// ErrIntegrityViolation is returned when an operation would break a
	// lifecycle invariant.
	ErrIntegrityViolation = types.ErrIntegrityViolation

	// ErrRebalanceInProgress is returned when a rebalance is requested while
	// another one for the same forum is still running.
	ErrRebalanceInProgress = types.ErrRebalanceInProgress

	// ErrSubmissionRepositoryRequired is returned when the submission repository is nil.
	ErrSubmissionRepositoryRequired = types.ErrSubmissionRepositoryRequired

	// ErrDiscussionRepositoryRequired is returned when the discussion repository is nil.
	ErrDiscussionRepositoryRequired = types.ErrDiscussionRepositoryRequired

	// ErrRosterRequired is returned when the enrollment/role registry is nil.
	ErrRosterRequired = types.ErrRosterRequired

	// ErrConflictRepositoryRequired is returned when the conflict repository is nil.
	ErrConflictRepositoryRequired = types.ErrConflictRepositoryRequired

	// ErrProfileStoreRequired is returned when the profile store is nil.
	ErrProfileStoreRequired = types.ErrProfileStoreRequired
)
