package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dinetap/dinetap/utils"
)

// AuthMiddleware verifies the bearer token, rejects revoked tokens, and puts
// the tenant identity (admin_uid) and role into the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		if claims.AdminUID == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid tenant in token"))
			c.Abort()
			return
		}

		if utils.IsTokenBlacklisted(utils.GetDB(), tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("token has been revoked"))
			c.Abort()
			return
		}

		c.Set("admin_uid", claims.AdminUID)
		c.Set("role", claims.Role)
		c.Set("token", tokenString)
		c.Set("token_expires_at", claims.ExpiresAt.Time)

		c.Next()
	}
}
