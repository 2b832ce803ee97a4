package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/internal/services"
	"github.com/testdeckhq/testdeck/pkg/response"
	"gorm.io/gorm"
)

// Permission builds the per-project authorization gates.
type Permission struct {
	authz *services.AuthorizationService
}

func NewPermission(db *gorm.DB) *Permission {
	return &Permission{authz: services.NewAuthorizationService(db)}
}

// projectIDFromRequest extracts the project id from the route params.
// Returns 0 when the route carries none.
func projectIDFromRequest(c *gin.Context) uint {
	raw := c.Param("projectId")
	if raw == "" {
		return 0
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0
	}
	return uint(id)
}

// Require resolves the user's role on the route's project and denies the
// request unless the role grants the permission. When the route carries no
// resolvable project id the check is a no-op and downstream validation is
// expected to reject the request. The resolved role is stored in the
// context so handlers do not re-query.
func (p *Permission) Require(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			c.Abort()
			return
		}

		projectID := projectIDFromRequest(c)
		if projectID == 0 {
			c.Next()
			return
		}

		role, err := p.authz.ResolveRole(userID, projectID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if !services.HasPermission(role, permission) {
			c.JSON(http.StatusForbidden, gin.H{"message": "permission denied"})
			c.Abort()
			return
		}

		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireProjectAccess is the coarser first-line gate: the user must be the
// project owner or hold any membership row, whatever its role.
func (p *Permission) RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			c.Abort()
			return
		}

		projectID := projectIDFromRequest(c)
		if projectID == 0 {
			c.Next()
			return
		}

		ok, err := p.authz.HasProjectAccess(userID, projectID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"message": "no access to this project"})
			c.Abort()
			return
		}

		c.Next()
	}
}
