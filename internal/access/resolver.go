package access

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/authorization"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/permission"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is what the authentication layer knows about the signed-in user.
type Identity struct {
	UserID snowflake.ID
	OrgID  snowflake.ID
}

// RoleLookup fetches the user's role within a tenant.
type RoleLookup interface {
	RoleForUser(ctx context.Context, orgID, userID snowflake.ID) (string, error)
}

type ResolverParam struct {
	fx.In

	Log     *zap.Logger
	Tenants tenantdomain.Service
	Roles   RoleLookup
	Authz   authorization.Service
	Plans   *config.PlanConfigHolder
}

// Resolver runs the per-authentication-event pipeline:
// tenant fetch (with trial auto-provisioning) -> role fetch -> role
// permission lookup -> intersection with plan permissions -> session.
// Steps run strictly sequentially; each depends on the previous output.
type Resolver struct {
	log     *zap.Logger
	tenants tenantdomain.Service
	roles   RoleLookup
	authz   authorization.Service
	plans   *config.PlanConfigHolder
}

func NewResolver(p ResolverParam) *Resolver {
	return &Resolver{
		log:     p.Log.Named("access.resolver"),
		tenants: p.Tenants,
		roles:   p.Roles,
		authz:   p.Authz,
		plans:   p.Plans,
	}
}

// Resolve produces the session for one authentication event. Any failure
// along the pipeline yields ErrUnauthenticated: a partial session is never
// exposed and resolution never fails open.
func (r *Resolver) Resolve(ctx context.Context, ident Identity) (*Session, error) {
	if ident.UserID == 0 || ident.OrgID == 0 {
		return nil, ErrUnauthenticated
	}

	tenant, subscription, err := r.tenants.EnsureProvisioned(ctx, ident.OrgID)
	if err != nil {
		r.log.Warn("tenant resolution failed",
			zap.String("org_id", ident.OrgID.String()),
			zap.Error(err),
		)
		return nil, ErrUnauthenticated
	}

	role, err := r.roles.RoleForUser(ctx, ident.OrgID, ident.UserID)
	if err != nil || role == "" {
		r.log.Warn("role resolution failed",
			zap.String("org_id", ident.OrgID.String()),
			zap.String("user_id", ident.UserID.String()),
			zap.Error(err),
		)
		return nil, ErrUnauthenticated
	}

	rolePerms, err := r.authz.RolePermissions(ctx, ident.OrgID, role)
	if err != nil {
		r.log.Warn("role permission lookup failed",
			zap.String("role", role),
			zap.Error(err),
		)
		return nil, ErrUnauthenticated
	}

	planPerms := permission.ForPlan(permission.ParseTier(tenant.PlanTier), r.plans.Current())

	return &Session{
		UserID:       ident.UserID,
		OrgID:        ident.OrgID,
		Role:         role,
		Permissions:  rolePerms.Intersect(planPerms),
		Subscription: subscription,
	}, nil
}
