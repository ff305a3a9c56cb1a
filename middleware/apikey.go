package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"screenai/utils"
)

// RequireAPIKey gates an endpoint on the X-API-Key header matching the
// configured admin key.
func RequireAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-Key")
		if !KeyMatches(provided, expected) {
			utils.DetailError(c, http.StatusForbidden, "Unauthorized: Invalid Admin Key")
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyMatches compares a supplied admin key against the configured one in
// constant time. An empty configured key never matches.
func KeyMatches(provided, expected string) bool {
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
