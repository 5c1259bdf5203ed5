package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/utils"
)

// RBACMiddleware checks if the user has one of the allowed roles. Must run after AuthMiddleware.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		utils.AbortWithError(c, http.StatusForbidden, "Access denied. Insufficient permissions.")
	}
}
