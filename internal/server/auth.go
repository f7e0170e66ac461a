package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/kirana/internal/auth/domain"
	"github.com/smallbiznis/kirana/internal/authorization"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"go.uber.org/zap"
)

type signupRequest struct {
	Organization tenantdomain.CreateRequest `json:"organization"`
	Name         string                     `json:"name"`
	Email        string                     `json:"email"`
	Password     string                     `json:"password"`
}

// Signup creates a tenant together with its owner account and signs the
// owner in. Trial provisioning itself happens lazily on the first resolved
// request, not here.
func (s *Server) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()

	tenant, err := s.tenantSvc.Create(ctx, req.Organization)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	_, err = s.authsvc.Register(ctx, authdomain.RegisterRequest{
		OrgID:    tenant.ID,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     authorization.RoleOwner,
	})
	if err != nil {
		s.log.Warn("owner registration failed after tenant create",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}

	user, authSession, err := s.authsvc.Login(ctx, authdomain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, authSession.Token, authSession.ExpiresAt)

	c.JSON(http.StatusCreated, gin.H{
		"organization": tenant,
		"user":         user,
	})
}

func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, authSession, err := s.authsvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, authSession.Token, authSession.ExpiresAt)

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			AbortWithError(c, err)
			return
		}
	}
	s.sessions.Clear(c)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me reports the resolved access grant: role, effective permissions, and
// the subscription snapshot they were intersected with.
func (s *Server) Me(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         sess.UserID.String(),
		"organization_id": sess.OrgID.String(),
		"role":            sess.Role,
		"permissions":     sess.Permissions.Sorted(),
		"subscription":    sess.Subscription,
	})
}
