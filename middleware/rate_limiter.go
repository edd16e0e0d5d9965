// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/icrisstudio/studio_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter applies a per-IP token bucket, with a stricter bucket on the
// login endpoint to slow down credential guessing.
type RateLimiter struct {
	ips            map[string]*rate.Limiter
	mu             *sync.RWMutex
	defaultLimit   rate.Limit
	defaultBurst   int
	endpointLimits map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:          make(map[string]*rate.Limiter),
		mu:           &sync.RWMutex{},
		defaultLimit: rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst: 20,
		endpointLimits: map[string]endpointLimit{
			"/api/auth/login": {
				limit: rate.Every(2 * time.Second),
				burst: 5,
			},
		},
	}

	go limiter.cleanupLimiters()

	return limiter
}

// cleanupLimiters periodically drops idle per-IP limiters so the map does
// not grow without bound.
func (r *RateLimiter) cleanupLimiters() {
	for {
		time.Sleep(1 * time.Hour)
		r.mu.Lock()
		r.ips = make(map[string]*rate.Limiter)
		r.mu.Unlock()
	}
}

func (r *RateLimiter) getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.ips[key]
	r.mu.RUnlock()
	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if limiter, exists = r.ips[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(limit, burst)
	r.ips[key] = limiter
	return limiter
}

// RateLimit returns the Echo middleware.
func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			ip := c.RealIP()

			limit := r.defaultLimit
			burst := r.defaultBurst
			key := ip
			if el, ok := r.endpointLimits[path]; ok {
				limit = el.limit
				burst = el.burst
				key = ip + path
			}

			if !r.getLimiter(key, limit, burst).Allow() {
				return c.JSON(http.StatusTooManyRequests, models.Response{
					Status:  http.StatusTooManyRequests,
					Message: "Too many requests, slow down",
				})
			}

			return next(c)
		}
	}
}
