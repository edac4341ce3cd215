package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizerp/internal/core/apperror"
)

// ReadOnly rejects every write with 403 READ_ONLY_MODE, except the paths
// in allowed (matched exactly).
func ReadOnly(enabled bool, allowed ...string) gin.HandlerFunc {
	allow := make(map[string]struct{}, len(allowed))
	for _, p := range allowed {
		allow[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if _, ok := allow[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		_ = c.Error(apperror.NewReadOnly())
		c.Abort()
	}
}
