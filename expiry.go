package peergrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// CheckExpiry demotes one pending match to expired if its deadline lapsed.
//
// The deadline is the assignment record's timestamp plus the configured
// grading window. Non-student reviewers (staff acting as graders) are never
// auto-expired. When the match expires, the submission id moves from the
// reviewer's pending set to the expired set (workload invariant holds: the
// id moves between sets) and the assignment record is deleted.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission of the pending match
//   - reviewerID: Reviewer of the pending match
//
// Returns:
//   - bool: true if the match was demoted to expired
//   - error: ErrConfiguration when no grading window is configured,
//     ErrNotFound when no such pending match exists
func (e *Engine) CheckExpiry(ctx context.Context, submissionID, reviewerID int64) (bool, error) {
	if e.cfg.GradingWindow <= 0 {
		return false, fmt.Errorf("%w: grading window unset for peerforum %d",
			ErrConfiguration, e.cfg.PeerforumID)
	}

	record, err := e.store.Record(ctx, e.cfg.CourseID, submissionID, reviewerID)
	if err != nil {
		return false, fmt.Errorf("load assignment record: %w", err)
	}

	role, err := e.roster.RoleOf(ctx, e.cfg.CourseID, reviewerID)
	if err != nil {
		return false, fmt.Errorf("resolve reviewer role: %w", err)
	}
	if role != types.RoleStudent {
		return false, nil
	}

	now := e.clock.Now()
	if !now.After(record.Deadline(e.cfg.GradingWindow)) {
		return false, nil
	}

	unlock := e.lockProfile(reviewerID)
	defer unlock()

	profile, err := e.store.Profile(ctx, e.cfg.CourseID, reviewerID)
	if err != nil {
		return false, fmt.Errorf("load profile %d: %w", reviewerID, err)
	}
	if err := profile.ExpirePending(submissionID); err != nil {
		return false, err
	}
	if err := e.store.PutProfile(ctx, profile); err != nil {
		return false, fmt.Errorf("persist profile %d: %w", reviewerID, err)
	}
	if err := e.store.DeleteRecord(ctx, e.cfg.CourseID, submissionID, reviewerID); err != nil {
		return false, fmt.Errorf("delete assignment record: %w", err)
	}

	e.metrics.RecordExpiredMatch()
	e.logger.Info("match expired",
		"submission", submissionID,
		"reviewer", reviewerID,
		"assignedAt", record.AssignedAt,
	)

	return true, nil
}

// Sweep runs CheckExpiry over every pending match in the course.
//
// The sweep is best-effort over the collection: a failure on one match is
// logged and aggregated, never aborting the run.
//
// Parameters:
//   - ctx: Context for repository calls
//
// Returns:
//   - int: Number of matches demoted to expired
//   - error: Aggregated per-match failures (nil when all matches processed)
func (e *Engine) Sweep(ctx context.Context) (int, error) {
	start := time.Now()

	records, err := e.store.ListRecords(ctx, e.cfg.CourseID)
	if err != nil {
		return 0, fmt.Errorf("list assignment records: %w", err)
	}

	expired := 0
	var errs []error
	for _, record := range records {
		demoted, err := e.CheckExpiry(ctx, record.SubmissionID, record.ReviewerID)
		if err != nil {
			e.logger.Error("sweep skipping match",
				"submission", record.SubmissionID,
				"reviewer", record.ReviewerID,
				"error", err,
			)
			errs = append(errs, err)

			continue
		}
		if demoted {
			expired++
		}
	}

	e.metrics.RecordSweep(expired, len(errs), time.Since(start).Seconds())
	e.logger.Info("expiration sweep finished",
		"records", len(records),
		"expired", expired,
		"failures", len(errs),
	)

	return expired, errors.Join(errs...)
}

// SubmissionExpired reports whether a submission is wholly expired: every
// currently assigned reviewer has individually expired for it. This is a
// derived predicate, not stored state.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission to check
//
// Returns:
//   - bool: true when the submission has reviewers and all of them expired
//   - error: ErrNotFound when the submission is missing
func (e *Engine) SubmissionExpired(ctx context.Context, submissionID int64) (bool, error) {
	sub, err := e.submissions.Submission(ctx, submissionID)
	if err != nil {
		return false, fmt.Errorf("load submission %d: %w", submissionID, err)
	}
	if sub.Reviewers.Len() == 0 {
		return false, nil
	}

	for _, uid := range sub.Reviewers.Members() {
		profile, err := e.store.Profile(ctx, e.cfg.CourseID, uid)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("load profile %d: %w", uid, err)
		}
		if !profile.Expired.Has(submissionID) {
			return false, nil
		}
	}

	return true, nil
}

// ExpiryVisibleTo reports the expiry state of a match as it should be shown
// to a viewer.
//
// A viewer holding the view-all-grades capability sees matches as unexpired
// for audit purposes. Permission only affects visibility; persisted
// lifecycle state is never mutated here.
//
// Parameters:
//   - ctx: Context for repository calls
//   - submissionID: Submission of the match
//   - reviewerID: Reviewer of the match
//   - viewerID: User the state is being rendered for
//
// Returns:
//   - bool: true when the match should be displayed as expired
//   - error: ErrNotFound when the reviewer has no profile
func (e *Engine) ExpiryVisibleTo(ctx context.Context, submissionID, reviewerID, viewerID int64) (bool, error) {
	profile, err := e.store.Profile(ctx, e.cfg.CourseID, reviewerID)
	if err != nil {
		return false, fmt.Errorf("load profile %d: %w", reviewerID, err)
	}
	if !profile.Expired.Has(submissionID) {
		return false, nil
	}

	if e.permissions != nil {
		bypass, err := e.permissions.HasCapability(ctx, viewerID, types.CapabilityViewAllGrades, e.cfg.CourseID)
		if err != nil {
			return false, fmt.Errorf("check capability: %w", err)
		}
		if bypass {
			return false, nil
		}
	}

	return true, nil
}
