package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards mutating endpoints with a shared API key passed in the
// x-api-key header. An empty configured key disables the check entirely,
// which is the default for local development.
func APIKeyAuth(configuredKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configuredKey == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("x-api-key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(configuredKey)) != 1 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rejected request with missing or invalid API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
