package middleware

import (
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// RequireRole allows only callers holding one of roles.
// Must run after Session; anonymous callers get 401.
func RequireRole(roles ...authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		if caller == nil {
			response.Abort(c, apperror.Unauthorized("Authentication required"))
			return
		}

		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}

		response.Abort(c, apperror.Forbidden("Access denied"))
	}
}

// RequireAdmin checks if user has admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(authz.RoleAdmin)
}
