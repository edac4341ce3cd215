// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
	"bizerp/pkg/logger"
)

// Recovery recovers from panics and answers 500. The stack is logged,
// never returned. A panic unwinds past ErrorHandler, so the envelope is
// rendered here.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				requestID := c.GetString("request_id")
				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Internal server error",
					"code":    apperror.CodeInternal,
					"details": map[string]any{"request_id": requestID},
				})
			}
		}()
		c.Next()
	}
}
