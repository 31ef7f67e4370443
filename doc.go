// Package peergrade implements the peer-review assignment and lifecycle
// engine for peerforum submissions.
//
// The engine decides which reviewers ("peergraders") are matched to which
// student-authored submissions, tracks each match through a lifecycle
// (pending, completed, blocked, expired), enforces load-balancing and
// conflict-of-interest constraints, supports optional topic-affinity
// partitioning and decides when a submission has collected enough reviews
// to be considered finished.
//
// # Quick Start
//
//	cfg := peergrade.DefaultConfig()
//	cfg.CourseID = 7
//	cfg.PeerforumID = 31
//	cfg.AutoAssignReplies = true
//
//	eng, err := peergrade.NewEngine(&cfg, peergrade.Dependencies{
//	    Submissions: subRepo,
//	    Discussions: discRepo,
//	    Roster:      roster,
//	    Conflicts:   conflicts,
//	    Profiles:    store.NewMemory(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reviewers, err := eng.Assign(ctx, submissionID)
//
// # Key Operations
//
//   - Assign: match reviewers to a new submission (eligibility filtering,
//     ancestor inheritance for replies, load-balanced or topic-affine
//     selection)
//   - Sweep / CheckExpiry: demote overdue pending matches to expired
//   - IsFinished: completed-review quorum check
//   - Rebalance: whole-course repartition of reviewers across topics
//   - RecordReview / Unassign / BlockReviewer: lifecycle transitions
//
// The engine consumes its collaborators (submission repository, enrollment
// roster, conflict registry, permission oracle, clock) through interfaces
// defined in the types package and owns no rendering, notification or
// authentication concerns.
package peergrade
