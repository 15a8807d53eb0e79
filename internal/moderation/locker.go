package moderation

import (
	"context"
	"sync"
)

// MemLocker serializes per-user pipeline invocations within a single
// process. Deployments with multiple instances should use the Redis locker
// from internal/store instead.
type MemLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemLocker() *MemLocker {
	return &MemLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *MemLocker) Lock(_ context.Context, userID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
