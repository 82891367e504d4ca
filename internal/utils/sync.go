// Package utils holds a lock that becomes a no-op when the caller synchronizes externally.
package utils

import "sync"

// OptionalRWMutex is a sync.RWMutex that only locks when UseMutex is set. The zero value does
// not lock.
type OptionalRWMutex struct {
	mutex    sync.RWMutex
	UseMutex bool
}

func (m *OptionalRWMutex) Lock() {
	if m.UseMutex {
		m.mutex.Lock()
	}
}

func (m *OptionalRWMutex) Unlock() {
	if m.UseMutex {
		m.mutex.Unlock()
	}
}

func (m *OptionalRWMutex) RLock() {
	if m.UseMutex {
		m.mutex.RLock()
	}
}

func (m *OptionalRWMutex) RUnlock() {
	if m.UseMutex {
		m.mutex.RUnlock()
	}
}

// WithLock runs fn while holding the write lock
func (m *OptionalRWMutex) WithLock(fn func()) {
	m.Lock()
	defer m.Unlock()

	fn()
}

// WithRLock runs fn while holding the read lock
func (m *OptionalRWMutex) WithRLock(fn func()) {
	m.RLock()
	defer m.RUnlock()

	fn()
}
