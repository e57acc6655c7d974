package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-IP request limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	IdleTTL           time.Duration // Limiters unused for this long are dropped
}

// DefaultRateLimitConfig allows a UI polling at 10 Hz plus a burst of commands.
var DefaultRateLimitConfig = RateLimitConfig{
	RequestsPerSecond: 30,
	Burst:             60,
	IdleTTL:           5 * time.Minute,
}

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix nano
}

// IPRateLimiter throttles HTTP requests per client IP.
// Stale entries are swept lazily on the request path, so it owns no goroutine.
type IPRateLimiter struct {
	cfg       RateLimitConfig
	mu        sync.Mutex
	limiters  map[string]*ipLimiterEntry
	lastSweep time.Time

	allowed  atomic.Uint64
	rejected atomic.Uint64
}

// NewIPRateLimiter creates an empty limiter.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultRateLimitConfig.IdleTTL
	}
	return &IPRateLimiter{
		cfg:       cfg,
		limiters:  make(map[string]*ipLimiterEntry),
		lastSweep: time.Now(),
	}
}

func (rl *IPRateLimiter) entry(ip string, now time.Time) *ipLimiterEntry {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.cfg.IdleTTL {
		cutoff := now.Add(-rl.cfg.IdleTTL).UnixNano()
		for k, e := range rl.limiters {
			if e.lastSeen.Load() < cutoff {
				delete(rl.limiters, k)
			}
		}
		rl.lastSweep = now
	}

	e, ok := rl.limiters[ip]
	if !ok {
		e = &ipLimiterEntry{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.limiters[ip] = e
	}
	e.lastSeen.Store(now.UnixNano())
	return e
}

// Allow reports whether ip may make another request now.
func (rl *IPRateLimiter) Allow(ip string) bool {
	if rl.entry(ip, time.Now()).limiter.Allow() {
		rl.allowed.Add(1)
		return true
	}
	rl.rejected.Add(1)
	return false
}

// Middleware rejects over-limit requests with 429.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(GetClientIP(r)) {
			RecordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetStats returns allow and reject counters.
func (rl *IPRateLimiter) GetStats() map[string]uint64 {
	return map[string]uint64{
		"allowed":  rl.allowed.Load(),
		"rejected": rl.rejected.Load(),
	}
}

// GetClientIP prefers proxy headers over RemoteAddr. The headers can be
// spoofed when the server is not behind a trusted proxy.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// connLimiter caps concurrent WebSocket connections per IP.
type connLimiter struct {
	mu       sync.Mutex
	maxPerIP int
	open     map[string]int
}

func newConnLimiter(maxPerIP int) *connLimiter {
	return &connLimiter{maxPerIP: maxPerIP, open: make(map[string]int)}
}

// Acquire reserves a slot for ip.
func (c *connLimiter) Acquire(ip string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[ip] >= c.maxPerIP {
		return false
	}
	c.open[ip]++
	return true
}

// Release frees a slot taken by Acquire.
func (c *connLimiter) Release(ip string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open[ip] <= 1 {
		delete(c.open, ip)
		return
	}
	c.open[ip]--
}

// Count returns ip's open connections.
func (c *connLimiter) Count(ip string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open[ip]
}

// isAllowedOrigin accepts browser origins served from this machine.
// Non-browser clients send no Origin and are accepted too.
func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	for _, prefix := range []string{"http://localhost", "http://127.0.0.1", "https://localhost"} {
		if origin == prefix || strings.HasPrefix(origin, prefix+":") {
			return true
		}
	}
	return false
}
