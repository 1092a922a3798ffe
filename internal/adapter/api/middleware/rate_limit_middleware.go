package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"phonemart/internal/infrastructure/ratelimit"
	"phonemart/pkg/errors"
	"phonemart/pkg/logger"
	"phonemart/pkg/response"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit throttles an action per authenticated user; anonymous requests
// are keyed by client IP.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if uid, ok := c.Get("uid").(string); ok && uid != "" {
				key = uid
			}

			allowed, wait := m.limiter.Allow(key, action)
			if !allowed {
				logger.Warn("Rate limit hit: key=%s, action=%s, retry in %v", key, action, wait)
				return response.Error(c, errors.TooManyRequests(
					fmt.Sprintf("Too many requests, retry in %d seconds", int(wait.Seconds())+1)))
			}

			return next(c)
		}
	}
}
