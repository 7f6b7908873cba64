package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rawthreads/storefront/internal/auth/session"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "" when the header is absent or malformed.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAdmin gates mutating and administrative routes: the request must
// present a token that is currently live in the session store.
func RequireAdmin(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" || !sessions.Check(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
