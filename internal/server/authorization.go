package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kirana/internal/authorization"
	"github.com/smallbiznis/kirana/internal/permission"
)

var manageableRoles = []string{
	authorization.RoleOwner,
	authorization.RoleManager,
	authorization.RoleCashier,
	authorization.RoleViewer,
}

// ListRolePermissions reports the effective role map for the tenant,
// overrides applied where they exist.
func (s *Server) ListRolePermissions(c *gin.Context) {
	sess := sessionFrom(c)

	out := make([]gin.H, 0, len(manageableRoles))
	for _, role := range manageableRoles {
		perms, err := s.authzSvc.RolePermissions(c.Request.Context(), sess.OrgID, role)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		out = append(out, gin.H{
			"role":        role,
			"permissions": perms.Sorted(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"roles": out})
}

type setRolePermissionsRequest struct {
	Permissions []permission.Permission `json:"permissions"`
}

func (s *Server) SetRolePermissions(c *gin.Context) {
	sess := sessionFrom(c)

	var req setRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	role := c.Param("role")
	if err := s.authzSvc.SetRolePermissions(c.Request.Context(), sess.OrgID, role, req.Permissions); err != nil {
		AbortWithError(c, err)
		return
	}

	perms, err := s.authzSvc.RolePermissions(c.Request.Context(), sess.OrgID, role)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":        role,
		"permissions": perms.Sorted(),
	})
}

func (s *Server) ClearRolePermissions(c *gin.Context) {
	sess := sessionFrom(c)

	role := c.Param("role")
	if err := s.authzSvc.ClearRolePermissions(c.Request.Context(), sess.OrgID, role); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
