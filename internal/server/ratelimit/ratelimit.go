// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// bucket refills continuously at rate tokens per second up to capacity.
type bucket struct {
	capacity   float64
	rate       float64
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.rate)
	b.lastRefill = now
}

// untilFull is the time needed to refill the bucket completely.
func (b *bucket) untilFull() time.Duration {
	return time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second))
}

// untilNext is the time until one token is available.
func (b *bucket) untilNext() time.Duration {
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second))
}

// Info describes the rate limit state after one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter keeps one bucket per client, route and method.
type Limiter struct {
	config  *Config
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a Limiter. A nil config enables a 1000 requests per
// minute default budget. A cleanup goroutine runs until Stop when
// CleanupInterval is positive.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow consumes one token for clientID on the given route.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ep := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if ep == nil {
		ep = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if ep.Limit <= 0 || ep.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	key := clientID + ":" + path + ":" + method

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		capacity := ep.Burst
		if capacity <= 0 {
			capacity = ep.Limit
		}
		b = &bucket{
			capacity:   float64(capacity),
			rate:       float64(ep.Limit) / ep.Window.Seconds(),
			tokens:     float64(capacity),
			lastRefill: now,
		}
		l.buckets[key] = b
	}
	b.lastAccess = now
	b.refill(now)

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}

	info := Info{
		Allowed:   allowed,
		Limit:     ep.Limit,
		Remaining: int(b.tokens),
		ResetTime: now.Add(b.untilFull()),
	}
	if !allowed {
		info.RetryAfter = b.untilNext()
	}
	return allowed, info
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.prune()
		case <-l.stop:
			return
		}
	}
}

// prune drops buckets idle for longer than IdleTTL.
func (l *Limiter) prune() int {
	cutoff := l.now().Add(-l.config.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
