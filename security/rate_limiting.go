package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// Middleware enforces a per-client request budget on booking endpoints and
// screens obvious bot user agents. Authenticated clients are keyed by
// record id, anonymous ones by IP.
func (r *RateLimiter) Middleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userAgent := e.Request.Header.Get("User-Agent")
		if isSuspiciousUserAgent(userAgent) {
			return apis.NewForbiddenError("Access denied", nil)
		}

		identifier := e.RealIP()
		if e.Auth != nil {
			identifier = fmt.Sprintf("user:%s", e.Auth.Id)
		}

		key := fmt.Sprintf("ratelimit:%s", identifier)
		ctx := e.Request.Context()

		count, err := r.redis.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				r.redis.Expire(ctx, key, r.window)
			}
			if count > int64(r.limit) {
				return apis.NewTooManyRequestsError("Rate limit exceeded. Please try again later.", nil)
			}
		}

		return e.Next()
	}
}

func isSuspiciousUserAgent(userAgent string) bool {
	if userAgent == "" {
		return true
	}

	lowered := strings.ToLower(userAgent)
	for _, pattern := range []string{"bot", "crawler", "spider", "scraper", "curl", "wget"} {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}

	return false
}
