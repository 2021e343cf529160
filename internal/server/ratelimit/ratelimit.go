// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTimeout is how long a client bucket survives without requests.
const idleTimeout = time.Hour

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages one token bucket per client.
type Limiter struct {
	config        *Config
	mu            sync.Mutex
	clients       map[string]*client
	now           func() time.Time
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
// A nil config uses the defaults with limiting enabled.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(true, 0, 0, nil)
	}

	limiter := &Limiter{
		config:  config,
		clients: make(map[string]*client),
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup()
	}

	return limiter
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] || Exempt(endpoint, method) {
		return true, Info{Allowed: true}
	}

	now := l.now()
	lim := l.clientLimiter(clientID, now)

	reservation := lim.ReserveN(now, 1)
	info := Info{Limit: l.config.Burst}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		info.RetryAfter = delay
	} else {
		info.Allowed = true
	}
	info.Remaining = int(math.Max(0, math.Floor(lim.TokensAt(now))))

	return info.Allowed, info
}

func (l *Limiter) clientLimiter(clientID string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[clientID]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.Burst)}
		l.clients[clientID] = c
	}
	c.lastSeen = now
	return c.limiter
}

// cleanup removes old unused buckets to prevent memory leaks.
func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupClients()
		case <-l.cleanupStop:
			return
		}
	}
}

func (l *Limiter) cleanupClients() {
	cutoff := l.now().Add(-idleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, id)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
