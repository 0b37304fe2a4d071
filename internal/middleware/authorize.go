package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/permissions"
)

// RequirePermission gates a route on the capability table. All role checks go
// through here; handlers never re-check roles inline.
func RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !permissions.Allowed(user.Role, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}

// RequireRole gates a route on an exact role set, for the few surfaces that
// are role-scoped rather than capability-scoped (user administration).
func RequireRole(roles ...permissions.Role) gin.HandlerFunc {
	roleSet := make(map[permissions.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
