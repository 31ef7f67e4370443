package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignments        *prometheus.CounterVec
	assignmentReviewers prometheus.Histogram
	assignmentLatency  prometheus.Histogram
	poolSize           prometheus.Gauge

	expiredMatches prometheus.Counter
	sweepExpired   prometheus.Counter
	sweepFailures  prometheus.Counter
	sweepLatency   prometheus.Histogram

	rebalanceLatency  *prometheus.HistogramVec
	rebalanceAttempts *prometheus.CounterVec
	affinityReviewers *prometheus.GaugeVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "peergrade" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "peergrade"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "operations_total",
			Help:      "Total assignment operations by origin (selected, inherited).",
		}, []string{"origin"})

		p.assignmentReviewers = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "reviewers_per_submission",
			Help:      "Number of reviewers matched per assignment operation.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 8, 12},
		})

		p.assignmentLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "duration_seconds",
			Help:      "Latency of assignment operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~4s
		})

		p.poolSize = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "eligible_pool_size",
			Help:      "Eligible candidate pool size observed by the last assignment.",
		})

		p.expiredMatches = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "expiry",
			Name:      "matches_total",
			Help:      "Total pending matches demoted to expired.",
		})

		p.sweepExpired = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "expiry",
			Name:      "sweep_expired_total",
			Help:      "Total matches expired by sweeps.",
		})

		p.sweepFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "expiry",
			Name:      "sweep_failures_total",
			Help:      "Total matches a sweep failed to process.",
		})

		p.sweepLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "expiry",
			Name:      "sweep_duration_seconds",
			Help:      "Latency of expiration sweeps in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		})

		p.rebalanceLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "rebalance",
			Name:      "duration_seconds",
			Help:      "Latency of rebalance passes in seconds by mode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"mode"})

		p.rebalanceAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rebalance",
			Name:      "attempts_total",
			Help:      "Rebalance attempts by mode and result (success,failure).",
		}, []string{"mode", "result"})

		p.affinityReviewers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "rebalance",
			Name:      "reviewers_by_affinity",
			Help:      "Reviewer counts by affinity type after the last rebalance.",
		}, []string{"affinity"})

		p.reg.MustRegister(p.assignments)
		p.reg.MustRegister(p.assignmentReviewers)
		p.reg.MustRegister(p.assignmentLatency)
		p.reg.MustRegister(p.poolSize)
		p.reg.MustRegister(p.expiredMatches)
		p.reg.MustRegister(p.sweepExpired)
		p.reg.MustRegister(p.sweepFailures)
		p.reg.MustRegister(p.sweepLatency)
		p.reg.MustRegister(p.rebalanceLatency)
		p.reg.MustRegister(p.rebalanceAttempts)
		p.reg.MustRegister(p.affinityReviewers)
	})
}

// AssignmentMetrics implementation

// RecordAssignment records one assignment operation by origin.
func (p *PrometheusCollector) RecordAssignment(selected int, inherited bool) {
	p.ensureRegistered()
	origin := "selected"
	if inherited {
		origin = "inherited"
	}
	p.assignments.WithLabelValues(origin).Inc()
	p.assignmentReviewers.Observe(float64(selected))
}

// RecordAssignmentDuration observes assignment latency.
func (p *PrometheusCollector) RecordAssignmentDuration(duration float64) {
	p.ensureRegistered()
	p.assignmentLatency.Observe(duration)
}

// RecordPoolSize sets the eligible pool size gauge.
func (p *PrometheusCollector) RecordPoolSize(size int) {
	p.ensureRegistered()
	p.poolSize.Set(float64(size))
}

// ExpiryMetrics implementation

// RecordExpiredMatch increments the expired match counter.
func (p *PrometheusCollector) RecordExpiredMatch() {
	p.ensureRegistered()
	p.expiredMatches.Inc()
}

// RecordSweep records a sweep outcome.
func (p *PrometheusCollector) RecordSweep(expired, failures int, duration float64) {
	p.ensureRegistered()
	p.sweepExpired.Add(float64(expired))
	p.sweepFailures.Add(float64(failures))
	p.sweepLatency.Observe(duration)
}

// RebalanceMetrics implementation

// RecordRebalanceDuration observes rebalance latency by mode.
func (p *PrometheusCollector) RecordRebalanceDuration(mode string, duration float64) {
	p.ensureRegistered()
	p.rebalanceLatency.WithLabelValues(mode).Observe(duration)
}

// RecordRebalanceAttempt records a rebalance attempt outcome by mode.
func (p *PrometheusCollector) RecordRebalanceAttempt(mode string, success bool) {
	p.ensureRegistered()
	result := "failure"
	if success {
		result = "success"
	}
	p.rebalanceAttempts.WithLabelValues(mode, result).Inc()
}

// RecordAffinityCounts sets the affinity gauges.
func (p *PrometheusCollector) RecordAffinityCounts(fixed, flexible int) {
	p.ensureRegistered()
	p.affinityReviewers.WithLabelValues("fixed").Set(float64(fixed))
	p.affinityReviewers.WithLabelValues("flexible").Set(float64(flexible))
}
