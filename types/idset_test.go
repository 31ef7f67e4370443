package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDSetMembership(t *testing.T) {
	s := NewIDSet(3, 1, 2, 2)

	require.Equal(t, 3, s.Len())
	require.True(t, s.Has(1))
	require.False(t, s.Has(4))

	require.True(t, s.Add(4))
	require.False(t, s.Add(4), "re-adding a member reports false")

	require.True(t, s.Remove(3))
	require.False(t, s.Remove(3), "removing a non-member reports false")
	require.Equal(t, 3, s.Len())
}

func TestIDSetMembersSorted(t *testing.T) {
	s := NewIDSet(42, 7, 19, 1)
	require.Equal(t, []int64{1, 7, 19, 42}, s.Members())

	empty := NewIDSet()
	require.Empty(t, empty.Members())
	require.NotNil(t, empty.Members())
}

func TestIDSetCloneIsIndependent(t *testing.T) {
	s := NewIDSet(1, 2)
	c := s.Clone()
	c.Add(3)
	s.Remove(1)

	require.True(t, c.Has(1))
	require.False(t, s.Has(3))
}

func TestIDSetIntersects(t *testing.T) {
	require.True(t, NewIDSet(1, 2, 3).Intersects(NewIDSet(3, 4)))
	require.False(t, NewIDSet(1, 2).Intersects(NewIDSet(3, 4)))
	require.False(t, NewIDSet().Intersects(NewIDSet(1)))
}

func TestIDSetJSONRoundTrip(t *testing.T) {
	s := NewIDSet(30, 10, 20)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `[10,20,30]`, string(data), "marshals as a sorted array")

	var decoded IDSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, s, decoded)
}
