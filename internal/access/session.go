// Package access resolves the effective permission set for a user on every
// authentication event by intersecting role permissions with the tenant's
// plan permissions.
package access

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/authorization"
	"github.com/smallbiznis/kirana/internal/permission"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
)

// PlanSelectionPath is where inactive tenants are sent regardless of the
// permissions their role would grant.
const PlanSelectionPath = "/billing/plans"

// Session is the access grant for one authentication event. It is derived
// fresh from the tenant record, the role map and the plan map; it is never
// persisted and never cached across events. Consumers receive it by
// explicit reference, not through ambient globals.
type Session struct {
	UserID       snowflake.ID
	OrgID        snowflake.ID
	Role         string
	Permissions  permission.Set
	Subscription tenantdomain.SubscriptionState
}

// Can is a pure set-membership test against the effective permissions.
func (s *Session) Can(p permission.Permission) bool {
	return s != nil && s.Permissions.Has(p)
}

// Guard evaluates the authorization decision for a permission. An inactive
// subscription redirects to plan selection before permissions are even
// consulted.
func (s *Session) Guard(p permission.Permission) authorization.Decision {
	if s == nil {
		return authorization.Forbid()
	}
	if !s.Subscription.Active {
		return authorization.RedirectTo(PlanSelectionPath)
	}
	if !s.Permissions.Has(p) {
		return authorization.Forbid()
	}
	return authorization.Allow()
}
