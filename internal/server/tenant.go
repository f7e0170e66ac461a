package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kirana/internal/permission"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
)

func (s *Server) GetTenantProfile(c *gin.Context) {
	sess := sessionFrom(c)

	tenant, err := s.tenantSvc.Get(c.Request.Context(), sess.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (s *Server) UpdateTenantProfile(c *gin.Context) {
	sess := sessionFrom(c)

	var req tenantdomain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.UpdateProfile(c.Request.Context(), sess.OrgID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// ListPlans exposes each tier with the permission ceiling it grants, so the
// plan-selection page can explain what an upgrade unlocks.
func (s *Server) ListPlans(c *gin.Context) {
	planCfg := s.plans.Current()

	tiers := []permission.PlanTier{
		permission.TierBasic,
		permission.TierPro,
		permission.TierEnterprise,
	}
	out := make([]gin.H, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, gin.H{
			"tier":        tier,
			"permissions": permission.ForPlan(tier, planCfg).Sorted(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"plans": out})
}

type changePlanRequest struct {
	Tier string `json:"tier"`
}

func (s *Server) ChangePlan(c *gin.Context) {
	sess := sessionFrom(c)

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.ChangePlan(c.Request.Context(), sess.OrgID, req.Tier)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

type renewRequest struct {
	Days int `json:"days"`
}

func (s *Server) RenewSubscription(c *gin.Context) {
	sess := sessionFrom(c)

	var req renewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tenant, err := s.tenantSvc.Renew(c.Request.Context(), sess.OrgID, req.Days)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (s *Server) DeactivateSubscription(c *gin.Context) {
	sess := sessionFrom(c)

	tenant, err := s.tenantSvc.Deactivate(c.Request.Context(), sess.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}
