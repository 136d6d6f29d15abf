package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eventforms/internal/auth"
)

const userIDKey = "user_id"

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the caller's id in the context.
func AuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			return
		}

		// Expect: "Bearer token"
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		userID, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the id AuthMiddleware stored for the request.
func UserID(c *gin.Context) (uint, bool) {
	uid, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := uid.(uint)
	return id, ok && id > 0
}
