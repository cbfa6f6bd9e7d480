// Package ctxutil moves caller identity between gin and the handlers.
package ctxutil

import "github.com/gin-gonic/gin"

// userIDKey is the gin context key holding the caller identity
const userIDKey = "user_id"

// SetUserID records the caller identity for the rest of the chain.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// UserID returns the caller identity, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
