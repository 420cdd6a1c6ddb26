package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// userIDKey is the gin context key the identity middleware stores the
// resolved user id under.
const userIDKey = "chat-api/user-id"

// Identity resolves the authenticated user from the X-User-ID header set by
// the auth gateway in front of this service. Requests without a valid id are
// rejected before reaching any handler.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid identity"})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the user id stored by Identity, or "" when absent.
func UserID(c *gin.Context) string {
	v, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// ResolveUserID extracts the user identity for endpoints that cannot run
// behind Identity, such as the websocket upgrade (browsers cannot set custom
// headers there, so a query parameter is accepted too). Returns "" when the
// identity is missing or malformed; the caller decides how to fail.
func ResolveUserID(r *http.Request) string {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		id = r.URL.Query().Get("user_id")
	}
	if id == "" {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
