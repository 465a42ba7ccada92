package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiKeyAuth requires the X-API-Key header to exactly match key. A mismatch
// or missing header aborts the request with 403, per spec.md §6.
func apiKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-API-Key") != key {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}

// requireMatchingUser enforces that, when present, the x-user-id header
// matches the :userId path parameter (spec.md §6's pinned-events contract).
func requireMatchingUser(c *gin.Context) bool {
	userID := c.Param("userId")
	header := c.GetHeader("x-user-id")
	if header != "" && header != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "x-user-id does not match path user",
		})
		return false
	}
	return true
}
