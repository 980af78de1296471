package middleware

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 2 * time.Second

// LoggingMiddleware writes one structured line per request. The level follows
// the response status.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		latency := time.Since(start)
		status := c.Writer.Status()

		var entry *logger.Entry
		switch {
		case status >= http.StatusInternalServerError:
			entry = logger.ErrorWithContext(ctx, "Server error")
		case status >= http.StatusBadRequest:
			entry = logger.WarnWithContext(ctx, "Client error")
		case latency > slowRequestThreshold:
			entry = logger.WarnWithContext(ctx, "Slow request")
		default:
			entry = logger.InfoWithContext(ctx, "Request completed")
		}

		entry = entry.
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			StatusCode(status).
			Int("response_size", c.Writer.Size()).
			Duration(latency)
		if len(c.Errors) > 0 {
			entry = entry.String("errors", c.Errors.String())
		}
		entry.Log()
	}
}

// RecoveryMiddleware turns a panic into a 500 JSON body
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.AbortWithStatusJSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
	})
}
