package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg *Config) (*Limiter, *testClock) {
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_DefaultBudget(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/other", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/other", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 6.0, info.RetryAfter.Seconds(), 0.01)
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 60; i++ {
		l.Allow("c", "/x", "GET")
	}
	allowed, _ := l.Allow("c", "/x", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_EndpointBurst(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/generate", "POST")
		require.True(t, allowed)
		assert.Equal(t, 20, info.Limit)
	}
	allowed, info := l.Allow("c", "/generate", "POST")
	assert.False(t, allowed)
	assert.Positive(t, info.RetryAfter)

	// Buckets are per route
	allowed, _ = l.Allow("c", "/analyze", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Lists(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	allowed, info := l.Allow("c", "/generate", "POST")
	assert.True(t, allowed)
	assert.Zero(t, info.Limit)
}

func TestLimiter_Prune(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer l.Stop()

	l.Allow("a", "/x", "GET")
	clock.Advance(2 * time.Hour)
	l.Allow("b", "/x", "GET")

	assert.Equal(t, 1, l.prune())
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/generate", Method: "POST", Limit: 1},
		{Path: "/generations/", Method: "GET", Limit: 2},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/generate", "POST", 1, false},
		{"wrong method", "/generate", "GET", 0, true},
		{"prefix", "/generations/abc", "GET", 2, false},
		{"no match", "/analyze", "POST", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["2.2.2.2"])
	assert.Empty(t, cfg.Blacklist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
