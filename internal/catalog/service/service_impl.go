package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/pkg/db"
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
		log:   p.Log.Named("catalog.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest) (*domain.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.ListPrice < 0 || req.TaxRatePct < 0 {
		return nil, domain.ErrInvalidItem
	}

	listed := true
	if req.Listed != nil {
		listed = *req.Listed
	}
	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "pcs"
	}

	now := s.clock.Now()
	item := &domain.Item{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Name:          name,
		SKU:           strings.TrimSpace(req.SKU),
		Slug:          slug.Make(name),
		HSNCode:       strings.TrimSpace(req.HSNCode),
		Unit:          unit,
		ListPrice:     req.ListPrice,
		PurchasePrice: req.PurchasePrice,
		TaxRatePct:    req.TaxRatePct,
		StockQty:      req.StockQty,
		RestockLevel:  req.RestockLevel,
		Listed:        listed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, orgID, id snowflake.ID, req domain.UpdateRequest) (*domain.Item, error) {
	item, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidItem
		}
		item.Name = name
		item.Slug = slug.Make(name)
	}
	if req.SKU != nil {
		item.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.HSNCode != nil {
		item.HSNCode = strings.TrimSpace(*req.HSNCode)
	}
	if req.Unit != nil && strings.TrimSpace(*req.Unit) != "" {
		item.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.ListPrice != nil {
		if *req.ListPrice < 0 {
			return nil, domain.ErrInvalidItem
		}
		item.ListPrice = *req.ListPrice
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.TaxRatePct != nil {
		if *req.TaxRatePct < 0 {
			return nil, domain.ErrInvalidItem
		}
		item.TaxRatePct = *req.TaxRatePct
	}
	if req.RestockLevel != nil {
		item.RestockLevel = *req.RestockLevel
	}
	if req.Listed != nil {
		item.Listed = *req.Listed
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Item, error) {
	var items []*domain.Item
	stmt := s.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("org_id = ?", orgID)
	if filter.Name != "" {
		stmt = stmt.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.HSNCode != "" {
		stmt = stmt.Where("hsn_code = ?", filter.HSNCode)
	}
	if filter.NeedRestock {
		stmt = stmt.Where("stock_qty <= restock_level")
	}
	err := page.Apply(stmt).
		Order("name asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	res := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *service) AdjustStock(ctx context.Context, orgID, id snowflake.ID, delta int) (*domain.Item, error) {
	var item *domain.Item
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found domain.Item
		if err := tx.Where("org_id = ? AND id = ?", orgID, id).Limit(1).Find(&found).Error; err != nil {
			return err
		}
		if found.ID == 0 {
			return domain.ErrNotFound
		}
		next := found.StockQty + delta
		if next < 0 {
			return domain.ErrInsufficientStock
		}
		found.StockQty = next
		found.UpdatedAt = s.clock.Now()
		if err := tx.Save(&found).Error; err != nil {
			return err
		}
		item = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) PublicList(ctx context.Context, orgID snowflake.ID, page pagination.Pagination) ([]*domain.Item, error) {
	var items []*domain.Item
	stmt := s.db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("org_id = ? AND listed = ?", orgID, true)
	err := page.Apply(stmt).
		Order("name asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
