package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
}

func New(p ServiceParam) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("party.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest) (*domain.Party, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidParty
	}
	kind := req.Kind
	if kind != domain.KindCustomer && kind != domain.KindSupplier {
		return nil, domain.ErrInvalidParty
	}

	now := s.clock.Now()
	party := &domain.Party{
		ID:                 s.genID.Generate(),
		OrgID:              orgID,
		Kind:               kind,
		Name:               name,
		Phone:              strings.TrimSpace(req.Phone),
		Email:              strings.TrimSpace(req.Email),
		Address:            strings.TrimSpace(req.Address),
		GSTIN:              strings.TrimSpace(req.GSTIN),
		StateCode:          strings.TrimSpace(req.StateCode),
		OutstandingBalance: req.OpeningBalance,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.db.WithContext(ctx).Create(party).Error; err != nil {
		return nil, err
	}
	return party, nil
}

func (s *service) Update(ctx context.Context, orgID, id snowflake.ID, req domain.UpdateRequest) (*domain.Party, error) {
	party, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, domain.ErrInvalidParty
	}
	apply(&party.Name, req.Name)
	apply(&party.Phone, req.Phone)
	apply(&party.Email, req.Email)
	apply(&party.Address, req.Address)
	apply(&party.GSTIN, req.GSTIN)
	apply(&party.StateCode, req.StateCode)
	party.UpdatedAt = s.clock.Now()

	if err := s.db.WithContext(ctx).Save(party).Error; err != nil {
		return nil, err
	}
	return party, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Party, error) {
	var party domain.Party
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&party).Error
	if err != nil {
		return nil, err
	}
	if party.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &party, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, kind domain.Kind, page pagination.Pagination) ([]*domain.Party, error) {
	var parties []*domain.Party
	stmt := s.db.WithContext(ctx).
		Model(&domain.Party{}).
		Where("org_id = ?", orgID)
	if kind != "" {
		stmt = stmt.Where("kind = ?", kind)
	}
	err := page.Apply(stmt).
		Order("name asc, id asc").
		Find(&parties).Error
	if err != nil {
		return nil, err
	}
	return parties, nil
}

func (s *service) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	res := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Party{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
