package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/auth"
	"github.com/zulandar/penlog/internal/models"
	"gorm.io/gorm"
)

// ctxUserKey is where the auth middleware stores the resolved user.
const ctxUserKey = "user"

// requireAuth resolves the bearer token to a user or aborts with 401.
func requireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		user, err := auth.Authenticate(db, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// requireAdmin aborts with 403 unless the resolved user is an admin. Must
// run after requireAuth.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || u.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
