package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/utils"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// AuthMiddleware requires a valid Bearer access token and loads its user into the context.
func AuthMiddleware(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, present := bearerToken(c)
		if !present {
			utils.AbortWithError(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		if tokenStr == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid Authorization header")
			return
		}
		if !authenticate(c, authSvc, tokenStr) {
			utils.AbortWithError(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is sent and otherwise continues anonymously.
func OptionalAuth(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, present := bearerToken(c); present && tokenStr != "" {
			authenticate(c, authSvc, tokenStr)
		}
		c.Next()
	}
}

// bearerToken returns the token and whether an Authorization header was sent at all.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

func authenticate(c *gin.Context, authSvc auth.Service, tokenStr string) bool {
	userID, err := authSvc.ParseAccessToken(tokenStr)
	if err != nil {
		return false
	}
	user, err := authSvc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
	return true
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (auth.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return auth.User{}, false
	}
	user, ok := v.(auth.User)
	return user, ok
}
