package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mongo-user-service/pkg/logger"
)

// Recovery returns a Gin middleware that recovers from panics, logs the panic
// value with a stack trace, and responds with a generic 500 error.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": "An internal error occurred",
				})
			}
		}()

		c.Next()
	}
}
