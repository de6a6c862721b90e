package middleware

import (
	"net/http"

	"message-api/internal/transport/httpdto"
	api_errors "message-api/pkg/errors"
	"message-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler turns errors attached with c.Error into a JSON reply when the
// handler did not write one itself. Details are logged, not returned.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			}
			if api_errors.IsClientError(err) {
				l.WarnCtx(c.Request.Context(), "request rejected", fields...)
			} else {
				l.ErrorCtx(c.Request.Context(), "request error", fields...)
			}
		}
		if c.Writer.Written() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.JSON(status, httpdto.NewErrorResponse("internal server error", httpdto.CodeInternalError))
	}
}

// Recovery converts a panic into a 500 JSON reply so every request still gets
// exactly one response.
func Recovery(l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if l != nil {
			l.ErrorCtx(c.Request.Context(), "panic recovered",
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", recovered),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			httpdto.NewErrorResponse("internal server error", httpdto.CodeInternalError))
	})
}
