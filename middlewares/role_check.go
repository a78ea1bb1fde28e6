package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dinetap/dinetap/models"
	"github.com/dinetap/dinetap/utils"
)

// RequireSuperAdmin guards the cross-tenant management routes.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		if role != models.RoleSuperAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New("superadmin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
