package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// defaultStaleAfter is how long an idle client keeps its limiter.
const defaultStaleAfter = 10 * time.Minute

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
	// ExemptPaths are matched exactly and never limited. Health probes and
	// metric scrapes must not starve under client pressure.
	ExemptPaths []string
	// StaleAfter bounds how long an idle client's limiter is retained
	// before the sweep drops it. Zero means defaultStaleAfter.
	StaleAfter time.Duration
}

// DefaultRateLimitConfig returns production-ready rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		ExemptPaths:       []string{"/health", "/metrics"},
		StaleAfter:        defaultStaleAfter,
	}
}

// client pairs a limiter with its last activity for the stale sweep.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit creates a per-IP rate limiting middleware. Idle entries are
// swept so the per-IP map does not grow without bound.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}

	exempt := make(map[string]struct{}, len(cfg.ExemptPaths))
	for _, p := range cfg.ExemptPaths {
		exempt[p] = struct{}{}
	}

	var (
		mu        sync.Mutex
		clients   = make(map[string]*client)
		lastSweep = time.Now()
	)

	return func(c *gin.Context) {
		if _, ok := exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) >= cfg.StaleAfter {
			for key, cl := range clients {
				if now.Sub(cl.lastSeen) >= cfg.StaleAfter {
					delete(clients, key)
				}
			}
			lastSweep = now
		}

		cl, exists := clients[ip]
		if !exists {
			cl = &client{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		mu.Unlock()

		if !cl.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GlobalRateLimit creates a global rate limiting middleware.
func GlobalRateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
