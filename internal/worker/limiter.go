package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles bulk record intake per capture source, so replaying
// a large feed cannot hammer the persistence store.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-source limiter.
func NewLimiter(recordsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(recordsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the source is allowed another record or the context
// is cancelled.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	return l.getLimiter(source).Wait(ctx)
}

// Allow reports whether a record is allowed without waiting.
func (l *Limiter) Allow(source string) bool {
	return l.getLimiter(source).Allow()
}

func (l *Limiter) getLimiter(source string) *rate.Limiter {
	if source == "" {
		source = "default"
	}

	l.mu.RLock()
	limiter, exists := l.limiters[source]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists = l.limiters[source]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[source] = limiter
	return limiter
}
