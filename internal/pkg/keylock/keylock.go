// Package keylock serializes work per key without holding a global lock.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// Locker hands out one mutual-exclusion slot per key. Entries are dropped
// once no goroutine holds or waits for them.
type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty Locker
func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Lock blocks until key is free or ctx is done. On success the returned
// function releases the key and must be called exactly once.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *Locker) release(key string, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}

// Len returns the number of keys currently held or awaited
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
