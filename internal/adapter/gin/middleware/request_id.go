package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mongo-user-service/pkg/logger"
)

// RequestIDHeader is the header used to propagate request ids.
const RequestIDHeader = "X-Request-ID"

// RequestID ensures every request carries a request id. An incoming
// X-Request-ID header is reused, otherwise a new id is generated. The id is
// stored in the request context for log correlation and echoed back in the
// response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}
