package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses.
// The API serves JSON only, so nothing may be framed or loaded from it.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

// RunLimiter limits how often a client may trigger a sync or a task.
// It counts requests per client IP in a fixed window.
type RunLimiter struct {
	mu             sync.Mutex
	requests       map[string]*requestWindow
	maxRequests    int
	windowDuration time.Duration
	stopCleanup    chan struct{}
	stopOnce       sync.Once
	now            func() time.Time
}

type requestWindow struct {
	count int
	start time.Time
}

// RunLimitConfig contains configuration for the run limiter.
type RunLimitConfig struct {
	MaxRequests     int           // Requests allowed per window (default: 10)
	WindowDuration  time.Duration // Length of the window (default: 1m)
	CleanupInterval time.Duration // How often expired windows are dropped (default: 5m)
}

// DefaultRunLimitConfig returns the defaults used by the server.
func DefaultRunLimitConfig() RunLimitConfig {
	return RunLimitConfig{
		MaxRequests:     10,
		WindowDuration:  time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewRunLimiter creates a limiter and starts its cleanup loop.
func NewRunLimiter(cfg RunLimitConfig) *RunLimiter {
	defaults := DefaultRunLimitConfig()
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = defaults.MaxRequests
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = defaults.WindowDuration
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}

	rl := &RunLimiter{
		requests:       make(map[string]*requestWindow),
		maxRequests:    cfg.MaxRequests,
		windowDuration: cfg.WindowDuration,
		stopCleanup:    make(chan struct{}),
		now:            time.Now,
	}
	go rl.cleanupLoop(cfg.CleanupInterval)
	return rl
}

// Stop stops the background cleanup goroutine. Safe to call more than once.
func (rl *RunLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Allow records a request from key and reports whether it is within the
// limit. When it is not, retryAfter is the time left in the window.
func (rl *RunLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	window, exists := rl.requests[key]
	if !exists || now.Sub(window.start) >= rl.windowDuration {
		rl.requests[key] = &requestWindow{count: 1, start: now}
		return true, 0
	}

	if window.count >= rl.maxRequests {
		return false, window.start.Add(rl.windowDuration).Sub(now)
	}
	window.count++
	return true, 0
}

func (rl *RunLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RunLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, window := range rl.requests {
		if now.Sub(window.start) >= rl.windowDuration {
			delete(rl.requests, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
func (rl *RunLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.Allow(c.ClientIP())
		if !allowed {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "too many sync requests",
				Code:  "rate_limited",
			})
			return
		}
		c.Next()
	}
}
