// Package lock provides short-lived mutual exclusion keyed by string, used to
// serialise work that must not run twice concurrently (e.g. confirming the
// same checkout session from two browser tabs).
package lock

import (
	"context"
	"errors"
	"sync"
)

var ErrNotAcquired = errors.New("lock is held by another caller")

// Release gives a lock back. It is safe to call more than once.
type Release func()

// LocalLocker is an in-process Locker for single-instance deployments and
// tests. It never blocks: a held key fails fast with ErrNotAcquired.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]struct{}),
	}
}

func (l *LocalLocker) Acquire(_ context.Context, key string) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, ErrNotAcquired
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
