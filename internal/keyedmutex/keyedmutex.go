// Package keyedmutex provides per-key mutual exclusion. The room registry
// and game-state cache use it to serialize read-check-write sequences for
// a single room code without blocking unrelated rooms.
package keyedmutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is a set of mutexes indexed by key. Entries are created on
// first Lock and removed once no goroutine holds or waits on them, so the
// map does not grow with the number of rooms ever seen.
type KeyedMutex[K comparable] struct {
	mu      sync.Mutex
	entries map[K]*entry
}

// New creates a new KeyedMutex
func New[K comparable]() *KeyedMutex[K] {
	return &KeyedMutex[K]{
		entries: make(map[K]*entry),
	}
}

// Lock acquires the mutex for the given key
func (m *KeyedMutex[K]) Lock(key K) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for the given key.
// Unlocking a key that is not held panics, as with sync.Mutex.
func (m *KeyedMutex[K]) Unlock(key K) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		panic("keyedmutex: unlock of unlocked key")
	}
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}
