package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

const staleAfter = 10 * time.Minute

// Limiter gives every client a fixed-window request budget, keyed by IP.
// The window is anchored at the client's first request and resets a
// minute later.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit    int
	window   time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	windowStart time.Time
	count       int
	lastSeen    time.Time
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// NewLimiter creates a new rate limiter
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		limit:   config.RequestsPerMinute,
		window:  time.Minute,
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop(config.CleanupInterval)
	return l
}

// Allow reports whether a request from the given IP fits its budget.
func (l *Limiter) Allow(clientIP string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[clientIP]
	if b == nil || now.Sub(b.windowStart) >= l.window {
		l.buckets[clientIP] = &bucket{windowStart: now, count: 1, lastSeen: now}
		return true
	}

	b.count++
	b.lastSeen = now
	return b.count <= l.limit
}

// Middleware rejects over-budget clients with 429 before the handler runs.
func (l *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ""
			if extractIP != nil {
				clientIP = extractIP(r)
			}
			if !l.Allow(clientIP) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropStaleBuckets()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) dropStaleBuckets() {
	cutoff := time.Now().Add(-staleAfter)

	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, ip)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}
