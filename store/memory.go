package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/TheMrKiko/peerforum-sub000/types"
)

type profileKey struct {
	courseID int64
	userID   int64
}

type recordKey struct {
	courseID     int64
	submissionID int64
	reviewerID   int64
}

// Memory implements types.ProfileStore with process-local maps.
type Memory struct {
	mu       sync.RWMutex
	profiles map[profileKey]*types.ReviewerProfile
	records  map[recordKey]*types.AssignmentRecord
}

var _ types.ProfileStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
//
// Returns:
//   - *Memory: Initialized store
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[profileKey]*types.ReviewerProfile),
		records:  make(map[recordKey]*types.AssignmentRecord),
	}
}

// Profile fetches the profile for (courseID, userID).
func (m *Memory) Profile(_ context.Context, courseID, userID int64) (*types.ReviewerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[profileKey{courseID, userID}]
	if !ok {
		return nil, fmt.Errorf("%w: profile (%d, %d)", types.ErrNotFound, courseID, userID)
	}

	return p.Clone(), nil
}

// PutProfile creates or replaces a profile.
func (m *Memory) PutProfile(_ context.Context, profile *types.ReviewerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profileKey{profile.CourseID, profile.UserID}] = profile.Clone()

	return nil
}

// ListProfiles returns every profile in a course.
func (m *Memory) ListProfiles(_ context.Context, courseID int64) ([]*types.ReviewerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]*types.ReviewerProfile, 0)
	for key, p := range m.profiles {
		if key.courseID == courseID {
			profiles = append(profiles, p.Clone())
		}
	}

	return profiles, nil
}

// PutRecord creates or replaces an assignment record.
func (m *Memory) PutRecord(_ context.Context, record *types.AssignmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *record
	m.records[recordKey{record.CourseID, record.SubmissionID, record.ReviewerID}] = &clone

	return nil
}

// Record fetches the assignment record for a pending match.
func (m *Memory) Record(_ context.Context, courseID, submissionID, reviewerID int64) (*types.AssignmentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[recordKey{courseID, submissionID, reviewerID}]
	if !ok {
		return nil, fmt.Errorf("%w: assignment record (%d, %d, %d)",
			types.ErrNotFound, courseID, submissionID, reviewerID)
	}

	clone := *r

	return &clone, nil
}

// DeleteRecord removes an assignment record. Deleting a missing record is
// not an error.
func (m *Memory) DeleteRecord(_ context.Context, courseID, submissionID, reviewerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, recordKey{courseID, submissionID, reviewerID})

	return nil
}

// ListRecords returns every assignment record in a course.
func (m *Memory) ListRecords(_ context.Context, courseID int64) ([]*types.AssignmentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*types.AssignmentRecord, 0)
	for key, r := range m.records {
		if key.courseID == courseID {
			clone := *r
			records = append(records, &clone)
		}
	}

	return records, nil
}
