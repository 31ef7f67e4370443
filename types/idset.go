package types

import (
	"encoding/json"
	"sort"
)

// IDSet is a set of entity identifiers (users or submissions).
//
// The zero value is not usable; create sets with NewIDSet. Sets serialize to
// JSON as sorted arrays so that persisted profiles are byte-stable across
// writes, which keeps KV-store revision churn low.
type IDSet map[int64]struct{}

// NewIDSet creates a set containing the given ids.
//
// Parameters:
//   - ids: Initial members (duplicates are collapsed)
//
// Returns:
//   - IDSet: A new set instance
func NewIDSet(ids ...int64) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Add inserts id into the set.
//
// Returns:
//   - bool: true if the id was not already a member
func (s IDSet) Add(id int64) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}

	return true
}

// Remove deletes id from the set.
//
// Returns:
//   - bool: true if the id was a member
func (s IDSet) Remove(id int64) bool {
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)

	return true
}

// Has reports whether id is a member of the set.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]

	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// Members returns the set contents in ascending order.
//
// The ascending order doubles as the engine's documented deterministic
// tie-break wherever an arbitrary-but-stable iteration order is required.
//
// Returns:
//   - []int64: Sorted member ids (empty slice for an empty or nil set)
func (s IDSet) Members() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Clone returns an independent copy of the set.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}

	return c
}

// Intersects reports whether the two sets share at least one member.
func (s IDSet) Intersects(other IDSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if _, ok := large[id]; ok {
			return true
		}
	}

	return false
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Members())
}

// UnmarshalJSON decodes a JSON array into the set, replacing prior contents.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)

	return nil
}
