package peergrade

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/TheMrKiko/peerforum-sub000/internal/keylock"
	"github.com/TheMrKiko/peerforum-sub000/internal/logging"
	"github.com/TheMrKiko/peerforum-sub000/internal/metrics"
	"github.com/TheMrKiko/peerforum-sub000/selector"
	"github.com/TheMrKiko/peerforum-sub000/types"
)

// Engine is the peer-review assignment and lifecycle coordinator for one
// peerforum instance.
//
// It decides which reviewers are matched to which submissions, tracks each
// match through its lifecycle (pending, completed, blocked, expired),
// enforces load-balancing and conflict-of-interest constraints and decides
// when a submission has collected enough reviews.
//
// Thread Safety:
//   - All public methods are safe for concurrent use across different
//     submissions and reviewers.
//   - Profile mutations run under a per-(course, user) lock, so concurrent
//     assignments selecting the same reviewer cannot lose updates.
//   - The engine is a soft load balancer: two concurrent assignments over
//     overlapping pools may both consider a reviewer available and skew
//     workload slightly, but a reviewer is never assigned twice to the same
//     submission.
//   - Rebalance runs are mutually exclusive per engine.
type Engine struct {
	cfg Config

	submissions types.SubmissionRepository
	discussions types.DiscussionRepository
	roster      types.Roster
	conflicts   types.ConflictRepository
	store       types.ProfileStore

	permissions types.PermissionOracle
	clock       types.Clock
	selector    types.Selector
	logger      types.Logger
	metrics     types.MetricsCollector

	locks *keylock.Registry

	rngMu sync.Mutex
	rng   *rand.Rand

	rebalanceMu sync.Mutex
}

// Dependencies bundles the external collaborators the engine consumes.
//
// All fields are required except none; optional collaborators (permission
// oracle, clock, metrics, logger) are passed as options instead.
type Dependencies struct {
	// Submissions provides submission reads and reviewer-set writes.
	Submissions SubmissionRepository

	// Discussions provides discussion reads and topic-defining writes.
	Discussions DiscussionRepository

	// Roster is the course enrollment and role registry.
	Roster Roster

	// Conflicts exposes conflict-of-interest groups.
	Conflicts ConflictRepository

	// Profiles persists reviewer profiles and assignment records.
	Profiles ProfileStore
}

// NewEngine creates a new Engine for the peerforum described by cfg.
//
// Returns a concrete *Engine struct following the "accept interfaces, return
// structs" principle. Consumers can define their own interfaces for testing.
//
// Parameters:
//   - cfg: Peerforum configuration (course/forum ids, reviewer bounds,
//     grading window, feature flags)
//   - deps: External collaborators (all required)
//   - opts: Optional configuration (logger, metrics, clock, permissions,
//     random source, selector override)
//
// Returns:
//   - *Engine: Initialized engine instance
//   - error: Validation error if configuration or dependencies are invalid
//
// Example:
//
//	cfg := peergrade.DefaultConfig()
//	cfg.CourseID, cfg.PeerforumID = 7, 31
//	eng, err := peergrade.NewEngine(&cfg, peergrade.Dependencies{
//	    Submissions: subRepo,
//	    Discussions: discRepo,
//	    Roster:      roster,
//	    Conflicts:   conflicts,
//	    Profiles:    store.NewMemory(),
//	})
func NewEngine(cfg *Config, deps Dependencies, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if deps.Submissions == nil {
		return nil, ErrSubmissionRepositoryRequired
	}
	if deps.Discussions == nil {
		return nil, ErrDiscussionRepositoryRequired
	}
	if deps.Roster == nil {
		return nil, ErrRosterRequired
	}
	if deps.Conflicts == nil {
		return nil, ErrConflictRepositoryRequired
	}
	if deps.Profiles == nil {
		return nil, ErrProfileStoreRequired
	}

	// Fill in missing configuration values with defaults
	SetDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Apply options
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logging.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	clockInstance := options.clock
	if clockInstance == nil {
		clockInstance = types.ClockFunc(time.Now)
	}

	sel := options.selector
	if sel == nil {
		if cfg.ThreadedGrading {
			sel = selector.NewTopicAffinity()
		} else {
			sel = selector.NewLoadBalance()
		}
	}

	rng := options.rng
	if rng == nil {
		// Deterministic per-forum seed so unseeded rebalances are reproducible.
		seed := xxh3.HashString(fmt.Sprintf("%d.%d", cfg.CourseID, cfg.PeerforumID))
		rng = rand.New(rand.NewSource(int64(seed))) //nolint:gosec // non-cryptographic shuffling
	}

	return &Engine{
		cfg:         *cfg,
		submissions: deps.Submissions,
		discussions: deps.Discussions,
		roster:      deps.Roster,
		conflicts:   deps.Conflicts,
		store:       deps.Profiles,
		permissions: options.permissions,
		clock:       clockInstance,
		selector:    sel,
		logger:      loggerInstance,
		metrics:     metricsCollector,
		locks:       keylock.New(),
		rng:         rng,
	}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Profile returns the reviewer profile for userID.
//
// Used by UI layers to show "posts to grade / done / blocked / expired" and
// by the gradebook-export collaborator to know who reviewed what.
//
// Parameters:
//   - ctx: Context for repository calls
//   - userID: Reviewer to look up
//
// Returns:
//   - *ReviewerProfile: Snapshot of the profile
//   - error: ErrNotFound if the user has no profile yet
func (e *Engine) Profile(ctx context.Context, userID int64) (*ReviewerProfile, error) {
	return e.store.Profile(ctx, e.cfg.CourseID, userID)
}

// WorkloadSummary aggregates lifecycle counters across the course.
type WorkloadSummary struct {
	// Reviewers is the number of profiles in the course.
	Reviewers int

	// Pending, Completed, Blocked and Expired total the lifecycle sets.
	Pending   int
	Completed int
	Blocked   int
	Expired   int

	// MinWorkload and MaxWorkload bound the per-reviewer workload counters.
	MinWorkload int
	MaxWorkload int
}

// Workloads returns aggregate lifecycle statistics for the whole course.
//
// Returns:
//   - WorkloadSummary: Aggregated counters (zero value when no profiles exist)
//   - error: Store failure
func (e *Engine) Workloads(ctx context.Context) (WorkloadSummary, error) {
	profiles, err := e.store.ListProfiles(ctx, e.cfg.CourseID)
	if err != nil {
		return WorkloadSummary{}, fmt.Errorf("list profiles: %w", err)
	}

	var sum WorkloadSummary
	for i, p := range profiles {
		sum.Reviewers++
		sum.Pending += p.Pending.Len()
		sum.Completed += p.Completed.Len()
		sum.Blocked += p.Blocked.Len()
		sum.Expired += p.Expired.Len()
		if i == 0 || p.Workload < sum.MinWorkload {
			sum.MinWorkload = p.Workload
		}
		if p.Workload > sum.MaxWorkload {
			sum.MaxWorkload = p.Workload
		}
	}

	return sum, nil
}

// lockProfile acquires the per-(course, user) mutation lock.
func (e *Engine) lockProfile(userID int64) func() {
	return e.locks.Lock(keylock.ProfileKey(e.cfg.CourseID, userID))
}

// profileOrNew loads the profile for userID, creating an empty one on first
// use. Callers must hold the profile lock.
func (e *Engine) profileOrNew(ctx context.Context, userID int64) (*types.ReviewerProfile, error) {
	profile, err := e.store.Profile(ctx, e.cfg.CourseID, userID)
	if errors.Is(err, ErrNotFound) {
		return types.NewReviewerProfile(e.cfg.CourseID, userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %d: %w", userID, err)
	}

	return profile, nil
}
