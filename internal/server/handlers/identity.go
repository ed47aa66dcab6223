package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDKey is the gin context key carrying the authenticated user id.
const userIDKey = "user_id"

// identityHeader carries the caller identity asserted by the auth proxy in
// front of this service. Authentication itself happens upstream.
const identityHeader = "X-User-ID"

// RequireIdentity rejects requests without an asserted caller identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(identityHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated caller id set by RequireIdentity.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
