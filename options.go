package peergrade

import "math/rand"

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	logger      Logger
	metrics     MetricsCollector
	clock       Clock
	permissions PermissionOracle
	rng         *rand.Rand
	selector    Selector
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewEngine
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	eng, err := peergrade.NewEngine(&cfg, deps, peergrade.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewEngine
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithClock sets the time source.
//
// Defaults to the system clock. Tests inject a manual clock to drive
// expiration deterministically.
//
// Parameters:
//   - clock: Clock implementation
//
// Returns:
//   - Option: Functional option for NewEngine
func WithClock(clock Clock) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}

// WithPermissions sets the permission oracle consumed by display-side expiry
// checks. Without it, ExpiryVisibleTo reports the persisted state as-is.
//
// Parameters:
//   - oracle: PermissionOracle implementation
//
// Returns:
//   - Option: Functional option for NewEngine
func WithPermissions(oracle PermissionOracle) Option {
	return func(o *engineOptions) {
		o.permissions = oracle
	}
}

// WithRand sets the random source used by the distribution rebalancer.
//
// Defaults to a PRNG seeded deterministically from (CourseID, PeerforumID),
// so unseeded rebalances are reproducible per forum. Tests pass a fixed-seed
// source for stable promotion picks.
//
// Parameters:
//   - rng: Seedable random source
//
// Returns:
//   - Option: Functional option for NewEngine
func WithRand(rng *rand.Rand) Option {
	return func(o *engineOptions) {
		o.rng = rng
	}
}

// WithSelector overrides the selector chosen from Config.ThreadedGrading.
//
// Parameters:
//   - sel: Selector implementation
//
// Returns:
//   - Option: Functional option for NewEngine
func WithSelector(sel Selector) Option {
	return func(o *engineOptions) {
		o.selector = sel
	}
}
