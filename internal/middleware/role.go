package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentflow/internal/pkg/response"
)

const (
	RoleCustomer = "customer"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// RequireRole ensures the authenticated caller has one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role.(string) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// OperatorOnly gates fulfilment endpoints (assignment, pickup, return).
func OperatorOnly() gin.HandlerFunc {
	return RequireRole(RoleOperator, RoleAdmin)
}
