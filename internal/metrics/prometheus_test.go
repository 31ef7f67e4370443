package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "peergrade")

	c.RecordAssignment(3, false)
	c.RecordAssignment(2, true)
	c.RecordAssignmentDuration(0.01)
	c.RecordPoolSize(7)
	c.RecordExpiredMatch()
	c.RecordSweep(4, 1, 0.2)
	c.RecordRebalanceDuration("manual", 0.5)
	c.RecordRebalanceAttempt("manual", true)
	c.RecordRebalanceAttempt("manual", false)
	c.RecordAffinityCounts(6, 9)

	assignments := testutil.ToFloat64(c.assignments.WithLabelValues("selected"))
	require.Equal(t, 1.0, assignments)
	inherited := testutil.ToFloat64(c.assignments.WithLabelValues("inherited"))
	require.Equal(t, 1.0, inherited)

	require.Equal(t, 7.0, testutil.ToFloat64(c.poolSize))
	require.Equal(t, 1.0, testutil.ToFloat64(c.expiredMatches))
	require.Equal(t, 4.0, testutil.ToFloat64(c.sweepExpired))
	require.Equal(t, 1.0, testutil.ToFloat64(c.sweepFailures))

	attempts := testutil.ToFloat64(c.rebalanceAttempts.WithLabelValues("manual", "success"))
	require.Equal(t, 1.0, attempts)

	require.Equal(t, 6.0, testutil.ToFloat64(c.affinityReviewers.WithLabelValues("fixed")))
	require.Equal(t, 9.0, testutil.ToFloat64(c.affinityReviewers.WithLabelValues("flexible")))
}

func TestPrometheusCollectorDefaultNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "")
	require.Equal(t, "peergrade", c.namespace)

	// Registration happens once, on first use.
	c.RecordPoolSize(1)
	c.RecordPoolSize(2)
	require.Equal(t, 2.0, testutil.ToFloat64(c.poolSize))
}

func TestNopCollector(t *testing.T) {
	c := NewNop()

	// Must be safe to call with no backing registry.
	c.RecordAssignment(1, false)
	c.RecordAssignmentDuration(0.1)
	c.RecordPoolSize(3)
	c.RecordExpiredMatch()
	c.RecordSweep(0, 0, 0)
	c.RecordRebalanceDuration("off", 0)
	c.RecordRebalanceAttempt("off", true)
	c.RecordAffinityCounts(0, 0)
}
