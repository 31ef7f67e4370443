package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockSerializesPerKey(t *testing.T) {
	r := New()

	const workers = 16
	const iterations = 100

	counter := 0
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				unlock := r.Lock("profile.1.100")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, workers*iterations, counter)
}

func TestDifferentKeysDoNotBlock(t *testing.T) {
	r := New()

	unlockA := r.Lock(ProfileKey(1, 100))
	defer unlockA()

	// Another key acquires immediately even while the first is held.
	unlockB, ok := r.TryLock(ProfileKey(1, 101))
	require.True(t, ok)
	unlockB()
}

func TestTryLock(t *testing.T) {
	r := New()

	unlock, ok := r.TryLock("k")
	require.True(t, ok)

	_, ok = r.TryLock("k")
	require.False(t, ok)

	unlock()

	again, ok := r.TryLock("k")
	require.True(t, ok)
	again()
}

func TestProfileKey(t *testing.T) {
	require.Equal(t, "profile.7.31", ProfileKey(7, 31))
}
