package middleware

import (
	"context"
	"net/http"
	"strconv"

	"message-api/internal/redis"
	"message-api/internal/transport/httpdto"
	api_errors "message-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// WriteLimiter is satisfied by *redis.RateLimiter.
type WriteLimiter interface {
	AllowWrite(ctx context.Context, clientID string) (*redis.RateLimitResult, error)
}

// WriteRateLimitMiddleware limits POST, PUT, PATCH and DELETE per client IP.
// Reads pass through untouched. A nil limiter disables the check.
func WriteRateLimitMiddleware(limiter WriteLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !isWrite(c.Request.Method) {
			c.Next()
			return
		}

		result, err := limiter.AllowWrite(c.Request.Context(), c.ClientIP())
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", httpdto.CodeInternalError))
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			_ = c.Error(api_errors.ErrRateLimited)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", httpdto.CodeRateLimited))
			return
		}

		c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
