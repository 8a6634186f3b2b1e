package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFrozenLimiter returns a limiter whose clock only moves when the test moves it.
func newFrozenLimiter(t *testing.T, cfg *Config) (*Limiter, *time.Time) {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("127.0.0.1", "/api/history", "GET")
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/api/history", "GET")
	assert.False(t, allowed, "11th request should be denied")
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
	assert.True(t, info.ResetTime.After(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newFrozenLimiter(t, &Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Second})

	assert.True(t, mustAllow(l))
	assert.True(t, mustAllow(l))
	assert.False(t, mustAllow(l))

	*now = now.Add(500 * time.Millisecond)
	assert.True(t, mustAllow(l))
}

func mustAllow(l *Limiter) bool {
	allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
	return allowed
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("a", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/x", "GET")
	assert.False(t, allowed)
	allowed, _ = l.Allow("b", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistBlacklist(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
		Blacklist:     map[string]bool{"10.6.6.6": true},
	})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("127.0.0.1", "/x", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}

	allowed, _ := l.Allow("10.6.6.6", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{Enabled: false, DefaultLimit: 1})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/x", "POST")
		assert.True(t, allowed)
	}
	assert.Equal(t, 0, l.size())
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/match", Method: "POST", Limit: 2, Window: time.Minute},
			{Path: "/api/history/", Method: "DELETE", Limit: 1, Window: time.Minute},
		},
	})

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("c", "/api/match", "POST")
		require.True(t, allowed)
		assert.Equal(t, 2, info.Limit)
	}
	allowed, _ := l.Allow("c", "/api/match", "POST")
	assert.False(t, allowed)

	// GET on the same path uses the default limit
	allowed, info := l.Allow("c", "/api/match", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	// prefix rules share one bucket across ids
	allowed, _ = l.Allow("c", "/api/history/1", "DELETE")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/api/history/2", "DELETE")
	assert.False(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Burst(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{
		Enabled: true,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/history", Method: "POST", Limit: 30, Window: time.Minute, Burst: 3},
		},
	})

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("c", "/api/history", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/api/history", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Concurrent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("c", "/x", "GET"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	// a sliver of refill may land during the run
	assert.GreaterOrEqual(t, allowedCount.Load(), int64(50))
	assert.LessOrEqual(t, allowedCount.Load(), int64(51))
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, now := newFrozenLimiter(t, &Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute, IdleTTL: time.Minute})

	l.Allow("a", "/x", "GET")
	*now = now.Add(30 * time.Second)
	l.Allow("b", "/x", "GET")
	require.Equal(t, 2, l.size())

	*now = now.Add(45 * time.Second)
	l.cleanupBuckets()
	assert.Equal(t, 1, l.size())
}

func TestLimiter_UnmatchedPathsShareDefaultBucket(t *testing.T) {
	l, _ := newFrozenLimiter(t, &Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Minute})

	for i := 0; i < 100; i++ {
		l.Allow("a", fmt.Sprintf("/unknown/%d", i), "GET")
	}
	assert.Equal(t, 1, l.size())

	allowed, _ := l.Allow("a", "/another", "PATCH")
	assert.False(t, allowed)

	allowed, _ = l.Allow("b", "/unknown/0", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 2, l.size())
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("c", "/api/history", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 600, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/", Method: "*", Limit: 1},
		{Path: "/api/history/", Method: "DELETE", Limit: 2},
		{Path: "/api/match", Method: "POST", Limit: 3},
	}

	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
	assert.Equal(t, 3, MatchEndpoint("/api/match", "POST", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/api/history/abc", "DELETE", configs).Limit)
	assert.Equal(t, 1, MatchEndpoint("/api/history/abc", "GET", configs).Limit)
	assert.Nil(t, MatchEndpoint("/other", "GET", configs))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "1.1.1.1, 2.2.2.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
	assert.Empty(t, cfg.Blacklist)
	assert.NotEmpty(t, cfg.EndpointConfigs)

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
