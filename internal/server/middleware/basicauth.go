// file: internal/server/middleware/basicauth.go
// version: 1.1.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-4e5f6a7b8c9d

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giftwell/giftwell/internal/config"
)

// BasicAuth returns a Gin middleware that enforces HTTP Basic Authentication
// when config.AppConfig.BasicAuthEnabled is true. Health and metrics
// endpoints, and the SMS webhook (Twilio cannot send credentials), are
// exempt.
func BasicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.AppConfig.BasicAuthEnabled {
			c.Next()
			return
		}

		path := c.Request.URL.Path

		if path == "/api/health" || path == "/api/v1/health" ||
			path == "/metrics" ||
			path == "/api/v1/sms/webhook" {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Giftwell"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		expectedUser := config.AppConfig.BasicAuthUsername
		expectedPass := config.AppConfig.BasicAuthPassword

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(expectedUser)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(expectedPass)) == 1

		if !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="Giftwell"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
