// Package keylock provides per-key mutual exclusion for profile mutations.
package keylock

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry hands out one mutex per string key.
//
// The engine uses it to scope ReviewerProfile read-modify-write sequences to
// a single (course, user) pair, so two concurrent assignments selecting the
// same low-load reviewer cannot lose updates. Mutexes are created lazily and
// kept for the registry's lifetime; the key space (course x enrolled users)
// is small enough that eviction is not worth the complexity.
type Registry struct {
	locks *xsync.Map[string, *sync.Mutex]
}

// New creates an empty lock registry.
//
// Returns:
//   - *Registry: Initialized registry
func New() *Registry {
	return &Registry{locks: xsync.NewMap[string, *sync.Mutex]()}
}

// Lock acquires the mutex for key and returns its unlock function.
//
// Parameters:
//   - key: Arbitrary lock key (see ProfileKey)
//
// Returns:
//   - func(): Unlock function, usually deferred
//
// Example:
//
//	unlock := locks.Lock(keylock.ProfileKey(courseID, userID))
//	defer unlock()
func (r *Registry) Lock(key string) func() {
	mu, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	mu.Lock()

	return mu.Unlock
}

// TryLock attempts to acquire the mutex for key without blocking.
//
// Returns:
//   - func(): Unlock function, nil if the lock is already held
//   - bool: true if the lock was acquired
func (r *Registry) TryLock(key string) (func(), bool) {
	mu, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	if !mu.TryLock() {
		return nil, false
	}

	return mu.Unlock, true
}

// ProfileKey builds the canonical lock key for a (course, user) profile.
func ProfileKey(courseID, userID int64) string {
	return fmt.Sprintf("profile.%d.%d", courseID, userID)
}
