package peergrade

import (
	"context"
	"fmt"
)

// IsFinished decides whether a submission has collected its review quorum.
//
// Only meaningful when FinishGrading is enabled; otherwise it always reports
// false. The quorum counts actual completed reviews across the course's
// reviewer profiles, regardless of how many reviewers were originally
// assigned: reviewers may have dropped out or expired, and the threshold is
// about received reviews, not assigned ones.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission to evaluate
//
// Returns:
//   - bool: true when completed reviews >= MinReviewers
//   - error: ErrNotFound when the submission is missing
func (e *Engine) IsFinished(ctx context.Context, submissionID int64) (bool, error) {
	if !e.cfg.FinishGrading {
		return false, nil
	}

	if _, err := e.submissions.Submission(ctx, submissionID); err != nil {
		return false, fmt.Errorf("load submission %d: %w", submissionID, err)
	}

	count, err := e.CompletedReviews(ctx, submissionID)
	if err != nil {
		return false, err
	}

	return count >= e.cfg.MinReviewers, nil
}

// CompletedReviews counts the reviews actually received by a submission.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission to count reviews for
//
// Returns:
//   - int: Number of profiles whose completed set contains the submission
//   - error: Store failure
func (e *Engine) CompletedReviews(ctx context.Context, submissionID int64) (int, error) {
	profiles, err := e.store.ListProfiles(ctx, e.cfg.CourseID)
	if err != nil {
		return 0, fmt.Errorf("list profiles: %w", err)
	}

	count := 0
	for _, p := range profiles {
		if p.Completed.Has(submissionID) {
			count++
		}
	}

	return count, nil
}
