package middleware

import (
	"time"

	"github.com/Payphone-Digital/addressbook/internal/constants"
	ctxutil "github.com/Payphone-Digital/addressbook/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext tags every request with an id (taken from X-Request-ID
// when the caller sent one), the client address and a deadline.
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(constants.HeaderXRequestID, requestID)

		ctx := ctxutil.WithRequestInfo(c.Request.Context(), requestID, c.ClientIP(), c.Request.UserAgent())
		if timeout > 0 {
			var cancel func()
			ctx, cancel = ctxutil.WithTimeout(ctx, timeout)
			defer cancel()
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
