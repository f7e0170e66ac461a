package authorization

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/kirana/internal/permission"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleViewer  = "viewer"
)

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidPermission = errors.New("invalid permission")
)

// Service persists and resolves role permission maps. Role maps are
// tenant-overridable; absent an override the static defaults apply.
type Service interface {
	// RolePermissions returns the effective role map for one tenant,
	// falling back to the built-in defaults when no override is stored.
	RolePermissions(ctx context.Context, orgID snowflake.ID, role string) (permission.Set, error)
	// SetRolePermissions replaces the tenant's override for a role.
	SetRolePermissions(ctx context.Context, orgID snowflake.ID, role string, perms []permission.Permission) error
	// ClearRolePermissions removes a tenant override, restoring defaults.
	ClearRolePermissions(ctx context.Context, orgID snowflake.ID, role string) error
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

// DefaultRolePermissions is the static fallback role map.
func DefaultRolePermissions(role string) (permission.Set, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleOwner:
		return permission.NewSet(permission.All()...), true
	case RoleManager:
		return permission.NewSet(
			permission.CatalogView,
			permission.CatalogManage,
			permission.PartyView,
			permission.PartyManage,
			permission.InvoiceView,
			permission.InvoiceCreate,
			permission.InvoiceDelete,
			permission.PurchaseView,
			permission.PurchaseCreate,
			permission.PaymentRecord,
			permission.ReportView,
		), true
	case RoleCashier:
		return permission.NewSet(
			permission.CatalogView,
			permission.PartyView,
			permission.InvoiceView,
			permission.InvoiceCreate,
			permission.PaymentRecord,
		), true
	case RoleViewer:
		return permission.NewSet(
			permission.CatalogView,
			permission.PartyView,
			permission.InvoiceView,
			permission.PurchaseView,
			permission.ReportView,
		), true
	default:
		return nil, false
	}
}

func (s *ServiceImpl) RolePermissions(ctx context.Context, orgID snowflake.ID, role string) (permission.Set, error) {
	_ = ctx
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return nil, ErrInvalidRole
	}

	rows, err := s.enforcer.GetFilteredPolicy(0, roleSubject(role), orgDomain(orgID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		defaults, ok := DefaultRolePermissions(role)
		if !ok {
			return nil, ErrInvalidRole
		}
		return defaults, nil
	}

	known := permission.NewSet(permission.All()...)
	out := make(permission.Set, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		p := permission.Permission(row[2])
		if known.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out, nil
}

func (s *ServiceImpl) SetRolePermissions(ctx context.Context, orgID snowflake.ID, role string, perms []permission.Permission) error {
	_ = ctx
	role = strings.ToLower(strings.TrimSpace(role))
	if _, ok := DefaultRolePermissions(role); !ok {
		return ErrInvalidRole
	}

	known := permission.NewSet(permission.All()...)
	rules := make([][]string, 0, len(perms))
	for _, p := range perms {
		if !known.Has(p) {
			return fmt.Errorf("%w: %s", ErrInvalidPermission, p)
		}
		rules = append(rules, []string{roleSubject(role), orgDomain(orgID), string(p)})
	}

	if _, err := s.enforcer.RemoveFilteredPolicy(0, roleSubject(role), orgDomain(orgID)); err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}
	if _, err := s.enforcer.AddPolicies(rules); err != nil {
		return err
	}
	s.log.Info("role permissions overridden",
		zap.String("org_id", orgID.String()),
		zap.String("role", role),
		zap.Int("count", len(rules)),
	)
	return nil
}

func (s *ServiceImpl) ClearRolePermissions(ctx context.Context, orgID snowflake.ID, role string) error {
	_ = ctx
	role = strings.ToLower(strings.TrimSpace(role))
	if _, ok := DefaultRolePermissions(role); !ok {
		return ErrInvalidRole
	}
	_, err := s.enforcer.RemoveFilteredPolicy(0, roleSubject(role), orgDomain(orgID))
	return err
}

func roleSubject(role string) string { return "role:" + role }

func orgDomain(orgID snowflake.ID) string { return fmt.Sprintf("org:%s", orgID.String()) }
