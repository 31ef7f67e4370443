package peergrade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// Rebalance performs a whole-course batch repartition of reviewers across
// topics after a distribution configuration change.
//
// The three modes are mutually exclusive and each performs a full batch pass
// over the course's reviewers and discussions:
//
//   - Manual: tops up each configured topic to its fixed reviewer target by
//     promoting random flexible reviewers, and demotes excess fixed
//     reviewers (ascending user id) back to flexible.
//   - Random: marks every discussion topic-defining, then round-robins
//     flexible reviewers across the configured topics.
//   - Off: clears every discussion's topic-defining flag and resets every
//     reviewer to flexible. This discards prior partitioning irreversibly.
//
// Only one rebalance can run per engine at a time; concurrent calls fail
// with ErrRebalanceInProgress rather than queueing, because overlapping
// read-modify-write passes could double-count targets. The pass is
// best-effort over the collection: per-reviewer failures are aggregated,
// never aborting the batch.
//
// Topic assignments that were stable before the pass are not guaranteed to
// survive when counts change slightly; the repartition is best-effort, not a
// strict invariant.
//
// Parameters:
//   - ctx: Context for repository calls
//   - dist: The new distribution configuration
//
// Returns:
//   - error: ErrRebalanceInProgress, ErrInvalidConfig, or aggregated
//     per-item failures
func (e *Engine) Rebalance(ctx context.Context, dist TopicDistributionConfig) error {
	if !e.rebalanceMu.TryLock() {
		return fmt.Errorf("%w: peerforum %d", ErrRebalanceInProgress, e.cfg.PeerforumID)
	}
	defer e.rebalanceMu.Unlock()

	start := time.Now()
	mode := dist.Mode.String()
	e.logger.Info("rebalance started", "peerforum", e.cfg.PeerforumID, "mode", mode)

	var err error
	switch dist.Mode {
	case types.DistributionManual:
		err = e.rebalanceManual(ctx, dist)
	case types.DistributionRandom:
		err = e.rebalanceRandom(ctx, dist)
	case types.DistributionOff:
		err = e.rebalanceOff(ctx)
	default:
		err = fmt.Errorf("%w: unknown distribution mode %d", ErrInvalidConfig, int(dist.Mode))
	}

	e.metrics.RecordRebalanceDuration(mode, time.Since(start).Seconds())
	e.metrics.RecordRebalanceAttempt(mode, err == nil)
	e.recordAffinityCounts(ctx)

	if err != nil {
		e.logger.Error("rebalance finished with failures", "mode", mode, "error", err)
	} else {
		e.logger.Info("rebalance finished", "mode", mode, "took", time.Since(start))
	}

	return err
}

// topicTarget computes the fixed-reviewer target per topic.
//
// An externally specified scaling rule, carried as configuration: a single
// student per topic asks for TopicTargetBase reviewers; anything larger
// scales by TopicTargetFactor.
func (e *Engine) topicTarget(studentsPerTopic int) int {
	if studentsPerTopic == 1 {
		return e.cfg.TopicTargetBase
	}

	return studentsPerTopic * e.cfg.TopicTargetFactor
}

// rebalanceManual tops up or trims the fixed reviewer count of each topic.
func (e *Engine) rebalanceManual(ctx context.Context, dist TopicDistributionConfig) error {
	if len(dist.Topics) == 0 {
		return fmt.Errorf("%w: manual distribution requires topics", ErrInvalidConfig)
	}
	if dist.StudentsPerTopicTarget < 1 {
		return fmt.Errorf("%w: manual distribution requires studentsPerTopicTarget >= 1", ErrInvalidConfig)
	}

	profiles, err := e.sortedProfiles(ctx)
	if err != nil {
		return err
	}

	target := e.topicTarget(dist.StudentsPerTopicTarget)

	// Flexible reviewers available for promotion, ascending user id. The
	// slice shrinks as topics claim reviewers, so later topics draw from
	// what earlier topics left.
	flexible := make([]*types.ReviewerProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Affinity == types.AffinityFlexible {
			flexible = append(flexible, p)
		}
	}

	var errs []error
	for _, topic := range dist.Topics {
		var fixed []*types.ReviewerProfile
		for _, p := range profiles {
			if p.Affinity == types.AffinityFixed && p.AffinityTopic == topic {
				fixed = append(fixed, p)
			}
		}

		switch {
		case len(fixed) < target:
			// Promote random flexible reviewers until the topic is full or
			// the pool runs dry.
			need := target - len(fixed)
			for need > 0 && len(flexible) > 0 {
				e.rngMu.Lock()
				idx := e.rng.Intn(len(flexible))
				e.rngMu.Unlock()

				pick := flexible[idx]
				flexible = append(flexible[:idx], flexible[idx+1:]...)

				if err := e.setAffinity(ctx, pick.UserID, types.AffinityFixed, topic); err != nil {
					errs = append(errs, err)
				} else {
					pick.Affinity = types.AffinityFixed
					pick.AffinityTopic = topic
					need--
				}
			}

		case len(fixed) > target:
			// Demote the excess, ascending user id for determinism.
			sort.Slice(fixed, func(i, j int) bool { return fixed[i].UserID < fixed[j].UserID })
			for _, p := range fixed[:len(fixed)-target] {
				if err := e.setAffinity(ctx, p.UserID, types.AffinityFlexible, ""); err != nil {
					errs = append(errs, err)

					continue
				}
				p.Affinity = types.AffinityFlexible
				p.AffinityTopic = ""
				flexible = append(flexible, p)
			}
		}
	}

	return errors.Join(errs...)
}

// rebalanceRandom marks all discussions topic-defining and round-robins
// flexible reviewers across the configured topics. A simple fair partition,
// not load-aware.
func (e *Engine) rebalanceRandom(ctx context.Context, dist TopicDistributionConfig) error {
	if len(dist.Topics) == 0 {
		return fmt.Errorf("%w: random distribution requires topics", ErrInvalidConfig)
	}

	var errs []error
	if err := e.setAllTopicDefining(ctx, true); err != nil {
		errs = append(errs, err)
	}

	profiles, err := e.sortedProfiles(ctx)
	if err != nil {
		errs = append(errs, err)

		return errors.Join(errs...)
	}

	pick := 0
	for _, p := range profiles {
		if p.Affinity != types.AffinityFlexible {
			continue
		}
		topic := dist.Topics[pick%len(dist.Topics)]
		if err := e.setAffinity(ctx, p.UserID, types.AffinityFixed, topic); err != nil {
			errs = append(errs, err)

			continue
		}
		pick++
	}

	return errors.Join(errs...)
}

// rebalanceOff disables threaded grading: every discussion's topic-defining
// flag is reset and every reviewer returns to flexible.
func (e *Engine) rebalanceOff(ctx context.Context) error {
	var errs []error
	if err := e.setAllTopicDefining(ctx, false); err != nil {
		errs = append(errs, err)
	}

	profiles, err := e.sortedProfiles(ctx)
	if err != nil {
		errs = append(errs, err)

		return errors.Join(errs...)
	}

	for _, p := range profiles {
		if p.Affinity == types.AffinityFlexible && p.AffinityTopic == "" {
			continue
		}
		if err := e.setAffinity(ctx, p.UserID, types.AffinityFlexible, ""); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// setAllTopicDefining flips the topic-defining flag on every discussion of
// the forum, continuing past per-discussion failures.
func (e *Engine) setAllTopicDefining(ctx context.Context, defining bool) error {
	discussions, err := e.discussions.ListByPeerforum(ctx, e.cfg.PeerforumID)
	if err != nil {
		return fmt.Errorf("list discussions: %w", err)
	}

	var errs []error
	for _, d := range discussions {
		if d.TopicDefining == defining {
			continue
		}
		if err := e.discussions.SetTopicDefining(ctx, d.ID, defining); err != nil {
			errs = append(errs, fmt.Errorf("discussion %d: %w", d.ID, err))
		}
	}

	return errors.Join(errs...)
}

// setAffinity updates one reviewer's affinity under their profile lock,
// re-reading the profile so concurrent lifecycle updates are not clobbered.
func (e *Engine) setAffinity(ctx context.Context, userID int64, affinity types.AffinityType, topic string) error {
	unlock := e.lockProfile(userID)
	defer unlock()

	profile, err := e.profileOrNew(ctx, userID)
	if err != nil {
		return err
	}

	profile.Affinity = affinity
	profile.AffinityTopic = topic

	if err := e.store.PutProfile(ctx, profile); err != nil {
		return fmt.Errorf("persist profile %d: %w", userID, err)
	}

	return nil
}

// sortedProfiles lists the course's profiles in ascending user id order, the
// engine's documented deterministic iteration order.
func (e *Engine) sortedProfiles(ctx context.Context) ([]*types.ReviewerProfile, error) {
	profiles, err := e.store.ListProfiles(ctx, e.cfg.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })

	return profiles, nil
}

// recordAffinityCounts publishes post-rebalance affinity gauges, best effort.
func (e *Engine) recordAffinityCounts(ctx context.Context) {
	profiles, err := e.store.ListProfiles(ctx, e.cfg.CourseID)
	if err != nil {
		return
	}

	fixed, flexible := 0, 0
	for _, p := range profiles {
		if p.Affinity == types.AffinityFixed {
			fixed++
		} else {
			flexible++
		}
	}
	e.metrics.RecordAffinityCounts(fixed, flexible)
}
