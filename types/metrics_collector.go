package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called concurrently and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces so callers can
// implement only the slice they care about and embed a nop for the rest.
type MetricsCollector interface {
	AssignmentMetrics
	ExpiryMetrics
	RebalanceMetrics
}

// AssignmentMetrics defines metrics for the assignment coordinator.
type AssignmentMetrics interface {
	// RecordAssignment records one assignment operation.
	//
	// Parameters:
	//   - selected: Number of reviewers matched to the submission
	//   - inherited: true when the reviewer set was donated by an ancestor
	RecordAssignment(selected int, inherited bool)

	// RecordAssignmentDuration records the time taken by an assignment.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	RecordAssignmentDuration(duration float64)

	// RecordPoolSize records the eligible candidate pool size (gauge).
	RecordPoolSize(size int)
}

// ExpiryMetrics defines metrics for the expiration monitor.
type ExpiryMetrics interface {
	// RecordExpiredMatch records one pending match demoted to expired.
	RecordExpiredMatch()

	// RecordSweep records an expiration sweep outcome.
	//
	// Parameters:
	//   - expired: Number of matches expired during the sweep
	//   - failures: Number of matches that could not be processed
	//   - duration: Time taken in seconds
	RecordSweep(expired, failures int, duration float64)
}

// RebalanceMetrics defines metrics for the distribution rebalancer.
type RebalanceMetrics interface {
	// RecordRebalanceDuration records the time taken for a rebalance pass.
	//
	// Parameters:
	//   - mode: Distribution mode ("off", "manual", "random")
	//   - duration: Time taken in seconds
	RecordRebalanceDuration(mode string, duration float64)

	// RecordRebalanceAttempt records a rebalance attempt (success or failure).
	RecordRebalanceAttempt(mode string, success bool)

	// RecordAffinityCounts sets the current fixed/flexible reviewer counts
	// after a rebalance (gauge metrics).
	RecordAffinityCounts(fixed, flexible int)
}
