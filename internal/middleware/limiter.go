package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ipLimiterPool keeps one token bucket per key (usually an IP) and evicts
// buckets that have been idle past the TTL.
type ipLimiterPool struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	newFn   func() *rate.Limiter
	started bool
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterEntryTTL        = 30 * time.Minute
)

func newIPLimiterPool(limit rate.Limit, burst int) *ipLimiterPool {
	return &ipLimiterPool{
		entries: make(map[string]*limiterEntry),
		newFn:   func() *rate.Limiter { return rate.NewLimiter(limit, burst) },
	}
}

func (p *ipLimiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startCleanupOnce()

	e, ok := p.entries[key]
	if !ok {
		e = &limiterEntry{limiter: p.newFn()}
		p.entries[key] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func (p *ipLimiterPool) startCleanupOnce() {
	if p.started {
		return
	}
	p.started = true
	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			p.mu.Lock()
			now := time.Now()
			for k, e := range p.entries {
				if now.Sub(e.lastUse) > limiterEntryTTL {
					delete(p.entries, k)
				}
			}
			p.mu.Unlock()
		}
	}()
}
