// Package ratelimit provides per-client rate limiting for the match API
// using a token bucket per (client, endpoint) pair.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// tokenBucket refills at a steady rate up to a burst capacity.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) refillLocked(now time.Time) {
	tb.tokens = min(float64(tb.capacity), tb.tokens+now.Sub(tb.lastRefill).Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// take consumes a token if one is available and reports the remaining count
// and when the bucket will be full again.
func (tb *tokenBucket) take() (allowed bool, remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.refillLocked(now)

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		allowed = true
	}

	remaining = int(tb.tokens)
	resetTime = now
	if tb.tokens < float64(tb.capacity) {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages token buckets for all clients.
type Limiter struct {
	buckets    map[string]*tokenBucket
	lastAccess map[string]time.Time
	mu         sync.Mutex
	config     *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}

	l := &Limiter{
		buckets:    make(map[string]*tokenBucket),
		lastAccess: make(map[string]time.Time),
		config:     config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow checks whether a request from clientID to the given endpoint and
// method may proceed.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Allowed: true}
	}

	rule := l.config.match(endpoint, method)
	if rule.Limit <= 0 {
		// Unlimited endpoint (health check).
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + rule.Path + ":" + rule.Method
	bucket := l.getBucket(key, rule)

	allowed, remaining, resetTime := bucket.take()

	var retryAfter time.Duration
	if !allowed {
		if retryAfter = time.Until(resetTime); retryAfter < 0 {
			retryAfter = 0
		}
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) getBucket(key string, rule Rule) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastAccess[key] = time.Now()
	if bucket, ok := l.buckets[key]; ok {
		return bucket
	}

	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}
	bucket := newTokenBucket(burst, float64(rule.Limit)/rule.Window.Seconds())
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets drops buckets idle for over an hour.
func (l *Limiter) cleanupBuckets() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}

// match finds the rule for a path and method, falling back to the default.
func (c *Config) match(path, method string) Rule {
	if path == "/health" && method == "GET" {
		return Rule{Path: path, Method: method, Limit: 0}
	}
	for _, rule := range c.Rules {
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}
	return Rule{Path: "", Method: method, Limit: c.DefaultLimit, Window: c.DefaultWindow}
}
