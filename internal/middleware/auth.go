package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hospital-appointment-api/internal/auth"
)

// Identity is the resolved caller attached to the request context.
type Identity struct {
	ID    string
	Email string
}

const identityKey = "identity"

// CurrentUser returns the identity set by Auth. It panics if the route was
// not registered behind the middleware, which is a wiring bug.
func CurrentUser(c *gin.Context) Identity {
	return c.MustGet(identityKey).(Identity)
}

// Auth gates protected routes. Verification is purely local (signature and
// expiry), no store lookup.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// token is the second field of "Authorization: Bearer <jwt>"
		raw := ""
		if parts := strings.Fields(c.GetHeader("Authorization")); len(parts) == 2 {
			raw = parts[1]
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}
		if claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token structure"})
			return
		}

		c.Set(identityKey, Identity{ID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}
