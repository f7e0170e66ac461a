package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/permission"
	"github.com/smallbiznis/kirana/internal/tax"
	"github.com/smallbiznis/kirana/internal/tenant/domain"
	"github.com/smallbiznis/kirana/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p ServiceParam) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("tenant.service"),
		cfg:   p.Cfg,
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *service) EnsureProvisioned(ctx context.Context, id snowflake.ID) (*domain.Tenant, domain.SubscriptionState, error) {
	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, domain.SubscriptionState{}, err
	}
	if tenant == nil {
		return nil, domain.SubscriptionState{}, domain.ErrNotFound
	}

	now := s.clock.Now()

	// A tenant without an expiry has never been through provisioning:
	// grant the trial tier and persist before resolving.
	if tenant.ExpiresAt == nil {
		expiry := domain.EndOfDay(now.AddDate(0, 0, s.cfg.TrialDurationDays))
		tenant.PlanTier = string(permission.ParseTier(s.cfg.TrialPlanTier))
		tenant.Validity = domain.ValidityActive
		tenant.ExpiresAt = &expiry
		tenant.IsTrial = true
		tenant.UpdatedAt = now
		if err := s.repo.Update(ctx, s.db, tenant); err != nil {
			return nil, domain.SubscriptionState{}, err
		}
		s.log.Info("tenant trial provisioned",
			zap.String("tenant_id", id.String()),
			zap.Time("expires_at", expiry),
		)
	}

	return tenant, tenant.Resolve(now), nil
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidTenant
	}

	now := s.clock.Now()
	tenant := &domain.Tenant{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slug.Make(name),
		GSTIN:     strings.TrimSpace(req.GSTIN),
		StateCode: strings.TrimSpace(req.StateCode),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		GSTScheme: normalizeScheme(req.GSTScheme),
		PlanTier:  string(permission.ParseTier(s.cfg.TrialPlanTier)),
		Validity:  domain.ValidityActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, tenant); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	return tenant, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	tenant, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (s *service) GetBySlug(ctx context.Context, rawSlug string) (*domain.Tenant, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawSlug))
	if normalized == "" {
		return nil, domain.ErrNotFound
	}
	tenant, err := s.repo.FindBySlug(ctx, s.db, normalized)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	return tenant, nil
}

func (s *service) UpdateProfile(ctx context.Context, id snowflake.ID, req domain.UpdateProfileRequest) (*domain.Tenant, error) {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&tenant.Name, req.Name)
	apply(&tenant.GSTIN, req.GSTIN)
	apply(&tenant.StateCode, req.StateCode)
	apply(&tenant.Address, req.Address)
	apply(&tenant.Phone, req.Phone)
	apply(&tenant.Email, req.Email)
	apply(&tenant.BankDetails, req.BankDetails)
	apply(&tenant.InvoiceTerms, req.InvoiceTerms)
	if req.SignaturePNG != nil {
		tenant.SignaturePNG = *req.SignaturePNG
	}
	if req.GSTScheme != nil {
		tenant.GSTScheme = normalizeScheme(*req.GSTScheme)
	}
	tenant.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *service) ChangePlan(ctx context.Context, id snowflake.ID, tier string) (*domain.Tenant, error) {
	normalized := strings.ToLower(strings.TrimSpace(tier))
	switch permission.PlanTier(normalized) {
	case permission.TierBasic, permission.TierPro, permission.TierEnterprise:
	default:
		return nil, domain.ErrInvalidTier
	}

	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tenant.PlanTier = normalized
	tenant.IsTrial = false
	tenant.Validity = domain.ValidityActive
	tenant.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}
	s.log.Info("plan changed",
		zap.String("tenant_id", id.String()),
		zap.String("tier", normalized),
	)
	return tenant, nil
}

func (s *service) Renew(ctx context.Context, id snowflake.ID, days int) (*domain.Tenant, error) {
	if days <= 0 {
		return nil, domain.ErrInvalidTenant
	}

	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	// Extend from the current expiry when it is still in the future,
	// otherwise from now. A lapsed tenant does not lose paid days.
	base := now
	if tenant.ExpiresAt != nil && tenant.ExpiresAt.After(now) {
		base = *tenant.ExpiresAt
	}
	expiry := domain.EndOfDay(base.AddDate(0, 0, days))
	tenant.ExpiresAt = &expiry
	tenant.Validity = domain.ValidityActive
	tenant.IsTrial = false
	tenant.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *service) Deactivate(ctx context.Context, id snowflake.ID) (*domain.Tenant, error) {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tenant.Validity = domain.ValidityInactive
	tenant.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func normalizeScheme(raw string) string {
	return tax.ParseScheme(raw).String()
}
