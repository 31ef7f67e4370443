package peergrade

import (
	"context"
	"errors"
	"fmt"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// eligiblePool computes the candidate reviewer pool for a submission.
//
// pool = enrolled students
//   - minus the author
//   - minus reviewers already assigned to the submission
//   - minus users sharing a conflict group with the author
//   - minus users whose profile is blocked
//
// A non-student author yields an empty pool: only student-authored
// submissions are auto-assigned. The filter has no side effects; candidates
// are annotated with the workload and affinity data selectors need.
func (e *Engine) eligiblePool(ctx context.Context, sub *types.Submission) ([]types.Candidate, error) {
	role, err := e.roster.RoleOf(ctx, e.cfg.CourseID, sub.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve author role: %w", err)
	}
	if role != types.RoleStudent {
		return nil, nil
	}

	students, err := e.roster.EnrolledStudents(ctx, e.cfg.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled students: %w", err)
	}

	conflicted, err := e.conflicts.ConflictsOf(ctx, e.cfg.CourseID, sub.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("resolve conflicts of author %d: %w", sub.AuthorID, err)
	}

	pool := make([]types.Candidate, 0, students.Len())
	for _, uid := range students.Members() {
		if uid == sub.AuthorID || sub.Reviewers.Has(uid) || conflicted.Has(uid) {
			continue
		}

		cand := types.Candidate{UserID: uid}
		profile, err := e.store.Profile(ctx, e.cfg.CourseID, uid)
		switch {
		case errors.Is(err, ErrNotFound):
			// No profile yet: zero workload, flexible affinity.
		case err != nil:
			return nil, fmt.Errorf("load profile %d: %w", uid, err)
		default:
			if profile.IsBlocked {
				continue
			}
			cand.Workload = profile.Workload
			cand.Affinity = profile.Affinity
			cand.AffinityTopic = profile.AffinityTopic
		}

		pool = append(pool, cand)
	}

	return pool, nil
}
