package testing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

// ManualClock implements types.Clock with an explicitly advanced time,
// letting tests drive expiration deterministically.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ types.Clock = (*ManualClock)(nil)

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SubmissionRepo is an in-memory types.SubmissionRepository fixture.
type SubmissionRepo struct {
	mu   sync.RWMutex
	subs map[int64]*types.Submission
}

var _ types.SubmissionRepository = (*SubmissionRepo)(nil)

// NewSubmissionRepo creates an empty repository.
func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{subs: make(map[int64]*types.Submission)}
}

// Add stores a submission, initializing its reviewer set when nil.
func (r *SubmissionRepo) Add(sub *types.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := sub.Clone()
	if clone.Reviewers == nil {
		clone.Reviewers = types.NewIDSet()
	}
	r.subs[clone.ID] = clone
}

// Submission fetches a submission by id.
func (r *SubmissionRepo) Submission(_ context.Context, id int64) (*types.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, fmt.Errorf("%w: submission %d", types.ErrNotFound, id)
	}

	return sub.Clone(), nil
}

// Children lists direct replies to the given submission.
func (r *SubmissionRepo) Children(_ context.Context, parentID int64) ([]*types.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	children := make([]*types.Submission, 0)
	for _, sub := range r.subs {
		if sub.ParentID == parentID {
			children = append(children, sub.Clone())
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })

	return children, nil
}

// SetReviewers persists the derived reviewer set onto a submission.
func (r *SubmissionRepo) SetReviewers(_ context.Context, submissionID int64, reviewers types.IDSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[submissionID]
	if !ok {
		return fmt.Errorf("%w: submission %d", types.ErrNotFound, submissionID)
	}
	sub.Reviewers = reviewers.Clone()

	return nil
}

// DiscussionRepo is an in-memory types.DiscussionRepository fixture.
type DiscussionRepo struct {
	mu    sync.RWMutex
	discs map[int64]*types.Discussion
}

var _ types.DiscussionRepository = (*DiscussionRepo)(nil)

// NewDiscussionRepo creates an empty repository.
func NewDiscussionRepo() *DiscussionRepo {
	return &DiscussionRepo{discs: make(map[int64]*types.Discussion)}
}

// Add stores a discussion.
func (r *DiscussionRepo) Add(d *types.Discussion) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *d
	r.discs[d.ID] = &clone
}

// Discussion fetches a discussion by id.
func (r *DiscussionRepo) Discussion(_ context.Context, id int64) (*types.Discussion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.discs[id]
	if !ok {
		return nil, fmt.Errorf("%w: discussion %d", types.ErrNotFound, id)
	}

	clone := *d

	return &clone, nil
}

// ListByPeerforum lists all discussions of a forum instance.
func (r *DiscussionRepo) ListByPeerforum(_ context.Context, peerforumID int64) ([]*types.Discussion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	discussions := make([]*types.Discussion, 0)
	for _, d := range r.discs {
		if d.PeerforumID == peerforumID {
			clone := *d
			discussions = append(discussions, &clone)
		}
	}
	sort.Slice(discussions, func(i, j int) bool { return discussions[i].ID < discussions[j].ID })

	return discussions, nil
}

// SetTopicDefining flips the topic-defining flag on a discussion.
func (r *DiscussionRepo) SetTopicDefining(_ context.Context, discussionID int64, defining bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.discs[discussionID]
	if !ok {
		return fmt.Errorf("%w: discussion %d", types.ErrNotFound, discussionID)
	}
	d.TopicDefining = defining

	return nil
}

// StaticRoster is an in-memory types.Roster fixture: a fixed student set per
// course. Users outside the student set are reported as staff.
type StaticRoster struct {
	mu       sync.RWMutex
	students map[int64]types.IDSet
}

var _ types.Roster = (*StaticRoster)(nil)

// NewStaticRoster creates a roster with the given students enrolled in courseID.
func NewStaticRoster(courseID int64, studentIDs ...int64) *StaticRoster {
	return &StaticRoster{
		students: map[int64]types.IDSet{courseID: types.NewIDSet(studentIDs...)},
	}
}

// Enroll adds a student to a course.
func (r *StaticRoster) Enroll(courseID, userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.students[courseID]
	if !ok {
		set = types.NewIDSet()
		r.students[courseID] = set
	}
	set.Add(userID)
}

// EnrolledStudents returns the ids of users enrolled as students.
func (r *StaticRoster) EnrolledStudents(_ context.Context, courseID int64) (types.IDSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.students[courseID]
	if !ok {
		return types.NewIDSet(), nil
	}

	return set.Clone(), nil
}

// RoleOf reports RoleStudent for enrolled students and RoleStaff otherwise.
func (r *StaticRoster) RoleOf(_ context.Context, courseID, userID int64) (types.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if set, ok := r.students[courseID]; ok && set.Has(userID) {
		return types.RoleStudent, nil
	}

	return types.RoleStaff, nil
}

// ConflictGroups is an in-memory types.ConflictRepository fixture.
type ConflictGroups struct {
	mu     sync.RWMutex
	groups []types.ConflictGroup
}

var _ types.ConflictRepository = (*ConflictGroups)(nil)

// NewConflictGroups creates an empty registry.
func NewConflictGroups() *ConflictGroups {
	return &ConflictGroups{}
}

// AddGroup registers a conflict group: any two members conflict.
func (r *ConflictGroups) AddGroup(courseID int64, memberIDs ...int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups = append(r.groups, types.ConflictGroup{
		CourseID: courseID,
		Members:  types.NewIDSet(memberIDs...),
	})
}

// ConflictsOf returns every user sharing a conflict group with userID,
// excluding userID itself.
func (r *ConflictGroups) ConflictsOf(_ context.Context, courseID, userID int64) (types.IDSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conflicted := types.NewIDSet()
	for _, g := range r.groups {
		if g.CourseID != courseID || !g.Members.Has(userID) {
			continue
		}
		for _, member := range g.Members.Members() {
			if member != userID {
				conflicted.Add(member)
			}
		}
	}

	return conflicted, nil
}

// PermissionFunc adapts a function to types.PermissionOracle.
type PermissionFunc func(userID int64, capability string, courseID int64) bool

var _ types.PermissionOracle = (PermissionFunc)(nil)

// HasCapability invokes the wrapped function.
func (f PermissionFunc) HasCapability(_ context.Context, userID int64, capability string, courseID int64) (bool, error) {
	return f(userID, capability, courseID), nil
}

// GrantAll returns an oracle that grants every capability.
func GrantAll() PermissionFunc {
	return func(int64, string, int64) bool { return true }
}

// DenyAll returns an oracle that denies every capability.
func DenyAll() PermissionFunc {
	return func(int64, string, int64) bool { return false }
}
