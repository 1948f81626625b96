// Package ratelimiter paces fetches per host at a configured requests/sec,
// serializing concurrent callers for the same host while leaving other hosts
// independent.
package ratelimiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// minRate is a safe floor so a misconfigured zero/negative rate never hangs
// forever.
const minRate = 0.01

// Limiter paces requests per host using a one-token-per-interval bucket.
type Limiter struct {
	rps float64

	mu       sync.Mutex
	perHost  map[string]*rate.Limiter
}

// New creates a Limiter enforcing rps requests/sec per host.
func New(rps float64) *Limiter {
	if rps < minRate {
		rps = minRate
	}
	return &Limiter{
		rps:     rps,
		perHost: make(map[string]*rate.Limiter),
	}
}

// Acquire blocks until the host's pacing interval has elapsed, or ctx is
// cancelled. Different hosts never block each other.
func (l *Limiter) Acquire(ctx context.Context, host string) error {
	return l.limiterFor(host).Wait(ctx)
}

func (l *Limiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	rl, ok := l.perHost[host]
	if !ok {
		// Burst of 1: strictly sequential pacing, no bursting.
		rl = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.perHost[host] = rl
	}
	return rl
}

// SetRate changes the requests/sec applied to hosts seen from now on, and to
// any host already tracked.
func (l *Limiter) SetRate(rps float64) {
	if rps < minRate {
		rps = minRate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rps = rps
	for _, rl := range l.perHost {
		rl.SetLimit(rate.Limit(rps))
	}
}

// Rate returns the currently configured requests/sec.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rps
}
