package peergrade

import "github.com/TheMrKiko/peerforum-sub000/types"

// Re-export types from the types package.
//
// This file provides a stable public API for the engine's core types and
// interfaces via type aliases. Internal packages depend on `types` without
// importing the root package, while users get `peergrade.Submission`,
// `peergrade.Logger`, etc.
type (
	Submission              = types.Submission
	Discussion              = types.Discussion
	ReviewerProfile         = types.ReviewerProfile
	AssignmentRecord        = types.AssignmentRecord
	ConflictGroup           = types.ConflictGroup
	TopicDistributionConfig = types.TopicDistributionConfig
	IDSet                   = types.IDSet
	Candidate               = types.Candidate
	SelectionContext        = types.SelectionContext
)

// Re-export interfaces from the types package for convenience.
type (
	SubmissionRepository = types.SubmissionRepository
	DiscussionRepository = types.DiscussionRepository
	Roster               = types.Roster
	PermissionOracle     = types.PermissionOracle
	ConflictRepository   = types.ConflictRepository
	Clock                = types.Clock
	ProfileStore         = types.ProfileStore
	Selector             = types.Selector
	MetricsCollector     = types.MetricsCollector
	Logger               = types.Logger
)

// Re-export enum constants from the types package.
const (
	RoleStudent = types.RoleStudent
	RoleStaff   = types.RoleStaff

	AffinityFlexible = types.AffinityFlexible
	AffinityFixed    = types.AffinityFixed

	DistributionOff    = types.DistributionOff
	DistributionManual = types.DistributionManual
	DistributionRandom = types.DistributionRandom
)

// NewIDSet re-exports the set constructor.
func NewIDSet(ids ...int64) IDSet { return types.NewIDSet(ids...) }
