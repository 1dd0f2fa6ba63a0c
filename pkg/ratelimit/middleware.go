package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware enforces per-IP rate limits based on the matched route
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// A broken limiter should not take the API down.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType maps a route to its request budget. The reserve/release
// pair gets the strictest budget because each call takes or drops a lock.
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.Contains(path, "/seats/reserve"),
		strings.Contains(path, "/seats/release"),
		strings.Contains(path, "/selection/") && strings.Contains(path, "/checkout"):
		return RateLimitTypeReserve

	case strings.Contains(path, "/analytics"):
		return RateLimitTypeAnalytics

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/admin/"),
		strings.Contains(path, "/venues") && !strings.Contains(path, "/layout"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/layout"),
		strings.Contains(path, "/ticket-types"),
		strings.Contains(path, "/reservations/"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
