// Package ratelimiter throttles HTTP clients using token buckets.
//
// Each client address gets its own bucket so one aggressive crawler cannot
// consume the whole budget. Buckets for idle clients are pruned after a
// retention window to keep memory bounded.
package ratelimiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// pruneAfter is how long a client bucket survives without traffic.
const pruneAfter = 5 * time.Minute

// ClientLimiter tracks a token bucket per client address.
//
// Thread safety: all methods are safe for concurrent use.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*client

	limit rate.Limit
	burst int

	lastPrune time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a ClientLimiter allowing the given sustained rate per client,
// with the given burst capacity.
//
// Parameters:
//   - requestsPerSecond: maximum sustained rate per client
//   - burst: bucket capacity (how many requests may arrive at once)
//
// requestsPerSecond = 0 disables limiting entirely: Allow always returns true.
func New(requestsPerSecond float64, burst uint) *ClientLimiter {
	return &ClientLimiter{
		clients:   make(map[string]*client),
		limit:     rate.Limit(requestsPerSecond),
		burst:     int(burst),
		lastPrune: time.Now(),
	}
}

// Allow reports whether the client identified by addr may proceed, consuming
// one token from its bucket if so.
func (l *ClientLimiter) Allow(addr string) bool {
	if l.limit == 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[addr]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now

	if now.Sub(l.lastPrune) > pruneAfter {
		l.prune(now)
	}

	return c.limiter.Allow()
}

// prune drops buckets that have been idle longer than the retention window.
// Caller must hold mu.
func (l *ClientLimiter) prune(now time.Time) {
	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) > pruneAfter {
			delete(l.clients, addr)
		}
	}
	l.lastPrune = now
}

// Size returns the number of tracked client buckets.
func (l *ClientLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
