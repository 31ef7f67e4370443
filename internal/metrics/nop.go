// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/TheMrKiko/peerforum-sub000/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// AssignmentMetrics implementation

// RecordAssignment discards the assignment metric.
func (n *NopMetrics) RecordAssignment(_ /* selected */ int, _ /* inherited */ bool) {
	// No-op
}

// RecordAssignmentDuration discards the assignment duration metric.
func (n *NopMetrics) RecordAssignmentDuration(_ /* duration */ float64) {
	// No-op
}

// RecordPoolSize discards the pool size metric.
func (n *NopMetrics) RecordPoolSize(_ /* size */ int) {
	// No-op
}

// ExpiryMetrics implementation

// RecordExpiredMatch discards the expired match counter.
func (n *NopMetrics) RecordExpiredMatch() {
	// No-op
}

// RecordSweep discards the sweep metric.
func (n *NopMetrics) RecordSweep(_ /* expired */, _ /* failures */ int, _ /* duration */ float64) {
	// No-op
}

// RebalanceMetrics implementation

// RecordRebalanceDuration discards the rebalance duration metric.
func (n *NopMetrics) RecordRebalanceDuration(_ /* mode */ string, _ /* duration */ float64) {
	// No-op
}

// RecordRebalanceAttempt discards the rebalance attempt metric.
func (n *NopMetrics) RecordRebalanceAttempt(_ /* mode */ string, _ /* success */ bool) {
	// No-op
}

// RecordAffinityCounts discards the affinity count gauges.
func (n *NopMetrics) RecordAffinityCounts(_ /* fixed */, _ /* flexible */ int) {
	// No-op
}
