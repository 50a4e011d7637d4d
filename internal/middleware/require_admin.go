package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin vérifie que l'utilisateur a le rôle "admin"
func RequireAdmin(c *gin.Context) {
	RequireRoles("admin")(c)
}

// RequireRoles vérifie que le rôle de l'utilisateur fait partie des rôles autorisés
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
		c.Abort()
	}
}
