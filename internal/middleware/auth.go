package middleware

import (
	"net/http"
	"strings"

	jwtsvc "holdmytime/internal/pkg/jwt"
	"holdmytime/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Auth validates the identity provider's bearer token and stores the subject
// id and email on the request context.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("user_email", claims.Email)

		c.Next()
	}
}

// UserID returns the authenticated subject id, empty when unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// UserEmail returns the authenticated email, empty when unauthenticated.
func UserEmail(c *gin.Context) string {
	return c.GetString("user_email")
}
