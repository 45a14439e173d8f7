package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/resthub/internal/shared/id"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID reuses a well-formed inbound X-Request-ID or generates one,
// stores it on the request context and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, ok := id.ParseRequestID(c.GetHeader(RequestIDHeader))
		if !ok {
			rid = id.NewRequestID()
		}

		c.Set(string(requestIDKey), rid.String())
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), requestIDKey, rid))
		c.Header(RequestIDHeader, rid.String())

		c.Next()
	}
}

// GetRequestID retrieves the request id from context
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(id.RequestID); ok {
		return rid.String()
	}
	return ""
}
