package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/dinetap/dinetap/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades. Browsers cannot
// set headers on websocket requests, so the token arrives as a query param.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		if utils.IsTokenBlacklisted(utils.GetDB(), token) {
			c.AbortWithStatus(401)
			return
		}

		c.Set("admin_uid", claims.AdminUID)
		c.Set("role", claims.Role)

		c.Next()
	}
}
