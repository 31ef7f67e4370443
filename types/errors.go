package types

import "errors"

// Sentinel errors for the peergrade engine.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components use these sentinels for known error conditions and
// wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
// Batch operations (sweep, rebalance) aggregate per-item failures with
// errors.Join instead of aborting the run.

// Engine errors - Public API errors returned by the Engine.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfiguration is returned when a required peerforum setting is
	// missing at the point an operation needs it (e.g. grading window unset
	// while an expiration sweep runs).
	ErrConfiguration = errors.New("missing peerforum configuration")

	// ErrNotFound is returned when a submission, profile or record does not
	// exist. Missing entities are never silently fabricated.
	ErrNotFound = errors.New("not found")

	// ErrIntegrityViolation is returned when an operation would break a
	// lifecycle invariant: assigning the author, a conflicted or an
	// already-assigned reviewer, overlapping lifecycle sets, or a cycle in
	// the submission parent chain.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrRebalanceInProgress is returned when a rebalance is requested while
	// another rebalance for the same forum is still running.
	ErrRebalanceInProgress = errors.New("rebalance already in progress")
)

// Dependency errors - returned by NewEngine when collaborators are missing.
var (
	// ErrSubmissionRepositoryRequired is returned when the submission repository is nil.
	ErrSubmissionRepositoryRequired = errors.New("submission repository is required")

	// ErrDiscussionRepositoryRequired is returned when the discussion repository is nil.
	ErrDiscussionRepositoryRequired = errors.New("discussion repository is required")

	// ErrRosterRequired is returned when the enrollment/role registry is nil.
	ErrRosterRequired = errors.New("roster is required")

	// ErrConflictRepositoryRequired is returned when the conflict repository is nil.
	ErrConflictRepositoryRequired = errors.New("conflict repository is required")

	// ErrProfileStoreRequired is returned when the profile store is nil.
	ErrProfileStoreRequired = errors.New("profile store is required")
)
