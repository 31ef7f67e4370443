package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/TheMrKiko/peerforum-sub000/internal/kvutil"
	"github.com/TheMrKiko/peerforum-sub000/types"
)

// NATSKV implements types.ProfileStore on a NATS JetStream KeyValue bucket.
//
// Profiles and assignment records are stored as JSON under hierarchical keys:
//
//	profile.<courseID>.<userID>
//	record.<courseID>.<submissionID>.<reviewerID>
//
// Listing filters by key prefix, so a single bucket can host many courses.
type NATSKV struct {
	kv jetstream.KeyValue
}

var _ types.ProfileStore = (*NATSKV)(nil)

// NewNATSKV creates a store backed by the named KV bucket, creating the
// bucket if it does not exist yet.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - bucket: KV bucket name (e.g. "peergrade-profiles")
//
// Returns:
//   - *NATSKV: Initialized store
//   - error: Bucket creation/open failure
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	st, err := store.NewNATSKV(ctx, js, "peergrade-profiles")
func NewNATSKV(ctx context.Context, js jetstream.JetStream, bucket string) (*NATSKV, error) {
	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "peergrade reviewer profiles and assignment records",
		History:     1,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}

	return &NATSKV{kv: kv}, nil
}

// NewNATSKVFromBucket wraps an existing KV bucket. Useful for tests that
// create buckets with custom settings.
func NewNATSKVFromBucket(kv jetstream.KeyValue) *NATSKV {
	return &NATSKV{kv: kv}
}

func profileKVKey(courseID, userID int64) string {
	return fmt.Sprintf("profile.%d.%d", courseID, userID)
}

func recordKVKey(courseID, submissionID, reviewerID int64) string {
	return fmt.Sprintf("record.%d.%d.%d", courseID, submissionID, reviewerID)
}

// Profile fetches the profile for (courseID, userID).
func (s *NATSKV) Profile(ctx context.Context, courseID, userID int64) (*types.ReviewerProfile, error) {
	entry, err := s.kv.Get(ctx, profileKVKey(courseID, userID))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: profile (%d, %d)", types.ErrNotFound, courseID, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile (%d, %d): %w", courseID, userID, err)
	}

	var profile types.ReviewerProfile
	if err := json.Unmarshal(entry.Value(), &profile); err != nil {
		return nil, fmt.Errorf("decode profile (%d, %d): %w", courseID, userID, err)
	}

	return &profile, nil
}

// PutProfile creates or replaces a profile.
func (s *NATSKV) PutProfile(ctx context.Context, profile *types.ReviewerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile (%d, %d): %w", profile.CourseID, profile.UserID, err)
	}

	if _, err := s.kv.Put(ctx, profileKVKey(profile.CourseID, profile.UserID), data); err != nil {
		return fmt.Errorf("put profile (%d, %d): %w", profile.CourseID, profile.UserID, err)
	}

	return nil
}

// ListProfiles returns every profile in a course.
func (s *NATSKV) ListProfiles(ctx context.Context, courseID int64) ([]*types.ReviewerProfile, error) {
	prefix := fmt.Sprintf("profile.%d.", courseID)

	profiles := make([]*types.ReviewerProfile, 0)
	err := s.forEachKey(ctx, prefix, func(value []byte) error {
		var profile types.ReviewerProfile
		if err := json.Unmarshal(value, &profile); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		profiles = append(profiles, &profile)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// PutRecord creates or replaces an assignment record.
func (s *NATSKV) PutRecord(ctx context.Context, record *types.AssignmentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode assignment record: %w", err)
	}

	key := recordKVKey(record.CourseID, record.SubmissionID, record.ReviewerID)
	if _, err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put assignment record %s: %w", key, err)
	}

	return nil
}

// Record fetches the assignment record for a pending match.
func (s *NATSKV) Record(ctx context.Context, courseID, submissionID, reviewerID int64) (*types.AssignmentRecord, error) {
	entry, err := s.kv.Get(ctx, recordKVKey(courseID, submissionID, reviewerID))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: assignment record (%d, %d, %d)",
			types.ErrNotFound, courseID, submissionID, reviewerID)
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment record: %w", err)
	}

	var record types.AssignmentRecord
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return nil, fmt.Errorf("decode assignment record: %w", err)
	}

	return &record, nil
}

// DeleteRecord removes an assignment record. Deleting a missing record is
// not an error.
func (s *NATSKV) DeleteRecord(ctx context.Context, courseID, submissionID, reviewerID int64) error {
	err := s.kv.Delete(ctx, recordKVKey(courseID, submissionID, reviewerID))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete assignment record: %w", err)
	}

	return nil
}

// ListRecords returns every assignment record in a course.
func (s *NATSKV) ListRecords(ctx context.Context, courseID int64) ([]*types.AssignmentRecord, error) {
	prefix := fmt.Sprintf("record.%d.", courseID)

	records := make([]*types.AssignmentRecord, 0)
	err := s.forEachKey(ctx, prefix, func(value []byte) error {
		var record types.AssignmentRecord
		if err := json.Unmarshal(value, &record); err != nil {
			return fmt.Errorf("decode assignment record: %w", err)
		}
		records = append(records, &record)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// forEachKey invokes fn with the value of every live key under prefix.
func (s *NATSKV) forEachKey(ctx context.Context, prefix string, fn func(value []byte) error) error {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		if kvutil.IsNoKeysFound(err) {
			return nil
		}

		return fmt.Errorf("list KV keys: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	for key := range lister.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		entry, err := s.kv.Get(ctx, key)
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			// Deleted between listing and read.
			continue
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}

		if err := fn(entry.Value()); err != nil {
			return err
		}
	}

	return nil
}
