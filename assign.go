package peergrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// Assign matches reviewers to a submission.
//
// The operation is idempotent per submission: when the submission already has
// reviewers, the existing set is returned and nothing is re-selected or
// overwritten.
//
// Steps:
//  1. Non-student authors are never auto-assigned (no-op, empty result).
//  2. When AutoAssignReplies is on and the submission is a reply, the
//     nearest ancestor with reviewers donates its set verbatim.
//  3. Otherwise the eligibility filter builds the candidate pool and the
//     configured selector picks min(MaxReviewers, |pool|) reviewers.
//  4. Each match is persisted under the reviewer's profile lock: pending set,
//     workload counter and a timestamped assignment record.
//  5. The union of assigned ids is written back to submission.Reviewers.
//
// An empty pool is not an error (e.g. a single-student course). A per-match
// integrity failure aborts only that match; the remaining matches still
// commit and the failures are aggregated in the returned error.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission to assign reviewers to
//
// Returns:
//   - []int64: Reviewer ids matched to the submission (existing set when
//     already assigned, empty when no candidates)
//   - error: ErrNotFound if the submission is missing, ErrIntegrityViolation
//     on parent-chain corruption, aggregated per-match failures otherwise
func (e *Engine) Assign(ctx context.Context, submissionID int64) ([]int64, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordAssignmentDuration(time.Since(start).Seconds())
	}()

	sub, err := e.submissions.Submission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission %d: %w", submissionID, err)
	}

	// Idempotence: prior matches are never duplicated or silently overwritten.
	if sub.Reviewers.Len() > 0 {
		return sub.Reviewers.Members(), nil
	}

	role, err := e.roster.RoleOf(ctx, e.cfg.CourseID, sub.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author role: %w", err)
	}
	if role != types.RoleStudent {
		e.logger.Debug("skipping non-student submission",
			"submission", sub.ID,
			"author", sub.AuthorID,
			"role", role.String(),
		)

		return []int64{}, nil
	}

	if e.cfg.AutoAssignReplies && !sub.IsRoot() {
		inherited, err := e.ancestorReviewers(ctx, sub)
		if err != nil {
			return nil, err
		}
		if inherited.Len() > 0 {
			ids, err := e.commit(ctx, sub, inherited.Members())
			e.metrics.RecordAssignment(len(ids), true)
			e.logger.Info("reply inherited ancestor reviewers",
				"submission", sub.ID,
				"reviewers", len(ids),
			)

			return ids, err
		}
	}

	pool, err := e.eligiblePool(ctx, sub)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordPoolSize(len(pool))
	if len(pool) == 0 {
		e.logger.Info("no eligible reviewers for submission", "submission", sub.ID)

		return []int64{}, nil
	}

	target := e.cfg.MaxReviewers
	if target > len(pool) {
		target = len(pool)
	}

	selCtx := types.SelectionContext{Submission: sub}
	if e.cfg.ThreadedGrading {
		disc, err := e.discussions.Discussion(ctx, sub.DiscussionID)
		switch {
		case errors.Is(err, ErrNotFound):
			// Selector falls back to flexible preference.
		case err != nil:
			return nil, fmt.Errorf("load discussion %d: %w", sub.DiscussionID, err)
		default:
			selCtx.Discussion = disc
		}
	}

	chosen := e.selector.Select(selCtx, pool, target)

	ids, err := e.commit(ctx, sub, chosen)
	e.metrics.RecordAssignment(len(ids), false)
	e.logger.Info("assigned reviewers",
		"submission", sub.ID,
		"pool", len(pool),
		"selected", len(ids),
	)

	return ids, err
}

// ancestorReviewers walks the parent chain and returns the reviewer set of
// the first ancestor that has one. The walk is bounded by MaxAncestorDepth
// and a visited set; hitting either is treated as data corruption.
//
// Returns:
//   - types.IDSet: Donated reviewer set (empty when no ancestor has reviewers)
//   - error: ErrIntegrityViolation on a cycle or excessive depth
func (e *Engine) ancestorReviewers(ctx context.Context, sub *types.Submission) (types.IDSet, error) {
	seen := types.NewIDSet(sub.ID)
	parentID := sub.ParentID

	for depth := 0; parentID != 0; depth++ {
		if depth >= e.cfg.MaxAncestorDepth {
			return nil, fmt.Errorf("%w: parent chain of submission %d exceeds depth %d",
				ErrIntegrityViolation, sub.ID, e.cfg.MaxAncestorDepth)
		}
		if !seen.Add(parentID) {
			return nil, fmt.Errorf("%w: cycle in parent chain at submission %d",
				ErrIntegrityViolation, parentID)
		}

		parent, err := e.submissions.Submission(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("load ancestor %d: %w", parentID, err)
		}
		if parent.Reviewers.Len() > 0 {
			return parent.Reviewers.Clone(), nil
		}

		parentID = parent.ParentID
	}

	return types.NewIDSet(), nil
}

// commit persists matches for the given reviewers and writes the reviewer
// set back onto the submission. Per-match failures abort only that match.
func (e *Engine) commit(ctx context.Context, sub *types.Submission, reviewerIDs []int64) ([]int64, error) {
	assignedAt := e.clock.Now()
	assigned := make([]int64, 0, len(reviewerIDs))

	var errs []error
	for _, uid := range reviewerIDs {
		ok, err := e.commitMatch(ctx, sub.ID, uid, assignedAt)
		if err != nil {
			e.logger.Error("failed to commit match",
				"submission", sub.ID,
				"reviewer", uid,
				"error", err,
			)
			errs = append(errs, err)

			continue
		}
		if ok {
			assigned = append(assigned, uid)
		}
	}

	if len(assigned) > 0 {
		reviewers := sub.Reviewers.Clone()
		for _, uid := range assigned {
			reviewers.Add(uid)
		}
		if err := e.submissions.SetReviewers(ctx, sub.ID, reviewers); err != nil {
			errs = append(errs, fmt.Errorf("persist reviewers of submission %d: %w", sub.ID, err))
		}
	}

	return assigned, errors.Join(errs...)
}

// commitMatch persists one reviewer/submission match under the reviewer's
// profile lock. The duplicate-assignment guard re-reads the submission
// inside the critical section, so two concurrent assignments of the same
// submission cannot both add the same reviewer.
//
// Returns:
//   - bool: true if the match was created, false if the reviewer was
//     already assigned
//   - error: Profile or store failure
func (e *Engine) commitMatch(ctx context.Context, submissionID, reviewerID int64, assignedAt time.Time) (bool, error) {
	unlock := e.lockProfile(reviewerID)
	defer unlock()

	current, err := e.submissions.Submission(ctx, submissionID)
	if err != nil {
		return false, fmt.Errorf("reload submission %d: %w", submissionID, err)
	}
	if current.Reviewers.Has(reviewerID) {
		return false, nil
	}

	profile, err := e.profileOrNew(ctx, reviewerID)
	if err != nil {
		return false, err
	}
	if err := profile.AssignPending(submissionID); err != nil {
		return false, err
	}
	if err := e.store.PutProfile(ctx, profile); err != nil {
		return false, fmt.Errorf("persist profile %d: %w", reviewerID, err)
	}

	record := &types.AssignmentRecord{
		CourseID:     e.cfg.CourseID,
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		AssignedAt:   assignedAt,
	}
	if err := e.store.PutRecord(ctx, record); err != nil {
		return false, fmt.Errorf("persist assignment record: %w", err)
	}

	return true, nil
}
