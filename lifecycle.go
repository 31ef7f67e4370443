package peergrade

import (
	"context"
	"errors"
	"fmt"
)

// RecordReview marks a pending match as completed.
//
// This is the engine-side half of the feedback-submission flow: the grading
// UI persists the feedback itself, then reports completion here so the
// submission id moves from the reviewer's pending set to completed and the
// assignment record is retired. Workload is unchanged (the id moves between
// sets).
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Reviewed submission
//   - reviewerID: Reviewer who submitted feedback
//
// Returns:
//   - error: ErrNotFound when no such pending match exists
func (e *Engine) RecordReview(ctx context.Context, submissionID, reviewerID int64) error {
	unlock := e.lockProfile(reviewerID)
	defer unlock()

	profile, err := e.store.Profile(ctx, e.cfg.CourseID, reviewerID)
	if err != nil {
		return fmt.Errorf("load profile %d: %w", reviewerID, err)
	}
	if err := profile.CompletePending(submissionID); err != nil {
		return err
	}
	if err := e.store.PutProfile(ctx, profile); err != nil {
		return fmt.Errorf("persist profile %d: %w", reviewerID, err)
	}
	if err := e.store.DeleteRecord(ctx, e.cfg.CourseID, submissionID, reviewerID); err != nil {
		return fmt.Errorf("delete assignment record: %w", err)
	}

	e.logger.Info("review completed", "submission", submissionID, "reviewer", reviewerID)

	return nil
}

// Unassign explicitly removes a pending match.
//
// The submission id is dropped from the reviewer's pending set, the workload
// counter decremented, the assignment record deleted and the reviewer
// removed from the submission's reviewer set.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission the match belongs to
//   - reviewerID: Reviewer to unassign
//
// Returns:
//   - error: ErrNotFound when no such pending match exists
func (e *Engine) Unassign(ctx context.Context, submissionID, reviewerID int64) error {
	unlock := e.lockProfile(reviewerID)
	defer unlock()

	profile, err := e.store.Profile(ctx, e.cfg.CourseID, reviewerID)
	if err != nil {
		return fmt.Errorf("load profile %d: %w", reviewerID, err)
	}
	if err := profile.DropPending(submissionID); err != nil {
		return err
	}
	if err := e.store.PutProfile(ctx, profile); err != nil {
		return fmt.Errorf("persist profile %d: %w", reviewerID, err)
	}
	if err := e.store.DeleteRecord(ctx, e.cfg.CourseID, submissionID, reviewerID); err != nil {
		return fmt.Errorf("delete assignment record: %w", err)
	}

	sub, err := e.submissions.Submission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load submission %d: %w", submissionID, err)
	}
	reviewers := sub.Reviewers.Clone()
	if reviewers.Remove(reviewerID) {
		if err := e.submissions.SetReviewers(ctx, submissionID, reviewers); err != nil {
			return fmt.Errorf("persist reviewers of submission %d: %w", submissionID, err)
		}
	}

	e.logger.Info("match unassigned", "submission", submissionID, "reviewer", reviewerID)

	return nil
}

// BlockReviewer excludes a user from receiving new assignments and withholds
// every currently pending submission from them.
//
// Pending ids move to the blocked set (workload unchanged) and their
// assignment records are retired so the expiration sweep ignores them.
// The profile is created if the user has none yet.
//
// Parameters:
//   - ctx: Context for repository calls
//   - reviewerID: Reviewer to block
//
// Returns:
//   - error: Store failure
func (e *Engine) BlockReviewer(ctx context.Context, reviewerID int64) error {
	unlock := e.lockProfile(reviewerID)
	defer unlock()

	profile, err := e.profileOrNew(ctx, reviewerID)
	if err != nil {
		return err
	}

	profile.IsBlocked = true

	pending := profile.Pending.Members()
	var errs []error
	for _, subID := range pending {
		if err := profile.BlockPending(subID); err != nil {
			errs = append(errs, err)

			continue
		}
		if err := e.store.DeleteRecord(ctx, e.cfg.CourseID, subID, reviewerID); err != nil {
			errs = append(errs, fmt.Errorf("delete assignment record for %d: %w", subID, err))
		}
	}

	if err := e.store.PutProfile(ctx, profile); err != nil {
		errs = append(errs, fmt.Errorf("persist profile %d: %w", reviewerID, err))
	}

	e.logger.Warn("reviewer blocked", "reviewer", reviewerID, "withheld", len(pending))

	return errors.Join(errs...)
}

// UnblockReviewer re-admits a user to assignment and restores previously
// withheld submissions to pending with fresh assignment records.
//
// Parameters:
//   - ctx: Context for repository calls
//   - reviewerID: Reviewer to unblock
//
// Returns:
//   - error: ErrNotFound when the user has no profile
func (e *Engine) UnblockReviewer(ctx context.Context, reviewerID int64) error {
	unlock := e.lockProfile(reviewerID)
	defer unlock()

	profile, err := e.store.Profile(ctx, e.cfg.CourseID, reviewerID)
	if err != nil {
		return fmt.Errorf("load profile %d: %w", reviewerID, err)
	}

	profile.IsBlocked = false

	blocked := profile.Blocked.Members()
	now := e.clock.Now()

	var errs []error
	for _, subID := range blocked {
		if err := profile.RestoreBlocked(subID); err != nil {
			errs = append(errs, err)

			continue
		}
		record := &AssignmentRecord{
			CourseID:     e.cfg.CourseID,
			SubmissionID: subID,
			ReviewerID:   reviewerID,
			AssignedAt:   now,
		}
		if err := e.store.PutRecord(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("recreate assignment record for %d: %w", subID, err))
		}
	}

	if err := e.store.PutProfile(ctx, profile); err != nil {
		errs = append(errs, fmt.Errorf("persist profile %d: %w", reviewerID, err))
	}

	e.logger.Info("reviewer unblocked", "reviewer", reviewerID, "restored", len(blocked))

	return errors.Join(errs...)
}
