package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/authorization"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/permission"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	tenantrepo "github.com/smallbiznis/kirana/internal/tenant/repository"
	tenantservice "github.com/smallbiznis/kirana/internal/tenant/service"
	"github.com/smallbiznis/kirana/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRoles struct {
	role string
	err  error
}

func (s *stubRoles) RoleForUser(ctx context.Context, orgID, userID snowflake.ID) (string, error) {
	return s.role, s.err
}

type stubAuthz struct {
	perms permission.Set
	err   error
}

func (s *stubAuthz) RolePermissions(ctx context.Context, orgID snowflake.ID, role string) (permission.Set, error) {
	return s.perms, s.err
}

func (s *stubAuthz) SetRolePermissions(ctx context.Context, orgID snowflake.ID, role string, perms []permission.Permission) error {
	return nil
}

func (s *stubAuthz) ClearRolePermissions(ctx context.Context, orgID snowflake.ID, role string) error {
	return nil
}

type fixture struct {
	resolver *Resolver
	tenants  tenantdomain.Service
	node     *snowflake.Node
	clock    *clock.FakeClock
	roles    *stubRoles
	authz    *stubAuthz
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&tenantdomain.Tenant{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC))
	cfg := config.Config{TrialPlanTier: "basic", TrialDurationDays: 14}

	tenants := tenantservice.New(tenantservice.ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		Cfg:   cfg,
		Clock: fc,
		GenID: node,
		Repo:  tenantrepo.Provide(),
	})

	roles := &stubRoles{role: authorization.RoleOwner}
	perms, _ := authorization.DefaultRolePermissions(authorization.RoleOwner)
	authz := &stubAuthz{perms: perms}

	resolver := NewResolver(ResolverParam{
		Log:     zap.NewNop(),
		Tenants: tenants,
		Roles:   roles,
		Authz:   authz,
		Plans:   config.NewStaticPlanConfigHolder(config.DefaultPlanConfig()),
	})

	return &fixture{resolver: resolver, tenants: tenants, node: node, clock: fc, roles: roles, authz: authz}
}

func (f *fixture) seedTenant(t *testing.T) snowflake.ID {
	t.Helper()
	tenant, err := f.tenants.Create(context.Background(), tenantdomain.CreateRequest{Name: "Shree Traders " + f.node.Generate().String()})
	require.NoError(t, err)
	return tenant.ID
}

func TestResolve_FirstAccessProvisionsTrial(t *testing.T) {
	f := newFixture(t)
	orgID := f.seedTenant(t)

	sess, err := f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: orgID})
	require.NoError(t, err)

	assert.True(t, sess.Subscription.Active)
	assert.True(t, sess.Subscription.IsTrial)
	require.NotNil(t, sess.Subscription.ExpiresAt)

	// Expiry lands exactly trialDurationDays ahead, at end of day.
	want := time.Date(2025, 3, 24, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, want, sess.Subscription.ExpiresAt.UTC())

	// Provisioning persisted: a second resolution sees the same expiry.
	again, err := f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: orgID})
	require.NoError(t, err)
	assert.Equal(t, want, again.Subscription.ExpiresAt.UTC())
}

func TestResolve_ExpiredTenantKeepsStoredTier(t *testing.T) {
	f := newFixture(t)
	orgID := f.seedTenant(t)

	// Move onto a paid pro plan, then let it lapse.
	_, err := f.tenants.ChangePlan(context.Background(), orgID, "pro")
	require.NoError(t, err)
	_, err = f.tenants.Renew(context.Background(), orgID, 30)
	require.NoError(t, err)

	f.clock.Advance(45 * 24 * time.Hour)

	sess, err := f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: orgID})
	require.NoError(t, err)

	assert.False(t, sess.Subscription.Active)
	assert.Equal(t, permission.TierPro, sess.Subscription.Tier, "tier is never downgraded on expiry")

	// Inactive subscription gates the whole area regardless of permissions.
	target, redirected := sess.Guard(permission.CatalogView).Redirect()
	assert.True(t, redirected)
	assert.Equal(t, PlanSelectionPath, target)
}

func TestResolve_EffectivePermissionsAreIntersection(t *testing.T) {
	f := newFixture(t)
	orgID := f.seedTenant(t) // trial provisions onto basic

	sess, err := f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: orgID})
	require.NoError(t, err)

	planPerms := permission.ForPlan(permission.TierBasic, config.DefaultPlanConfig())
	rolePerms := f.authz.perms

	for p := range sess.Permissions {
		assert.True(t, rolePerms.Has(p), "effective set leaked past role set: %s", p)
		assert.True(t, planPerms.Has(p), "effective set leaked past plan set: %s", p)
	}

	// Owner role grants permissions.manage, but the basic plan does not.
	assert.True(t, rolePerms.Has(permission.PermissionsManage))
	assert.False(t, sess.Can(permission.PermissionsManage))
}

func TestResolve_FailClosed(t *testing.T) {
	f := newFixture(t)

	// Missing identity.
	_, err := f.resolver.Resolve(context.Background(), Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Unknown tenant.
	_, err = f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: f.node.Generate()})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Role fetch failure.
	orgID := f.seedTenant(t)
	f.roles.err = errors.New("boom")
	_, err = f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: orgID})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	f.roles.err = nil

	// Permission lookup failure.
	f.authz.err = errors.New("boom")
	_, err = f.resolver.Resolve(context.Background(), Identity{UserID: f.node.Generate(), OrgID: orgID})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
