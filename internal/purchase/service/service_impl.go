package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/clock"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/purchase/domain"
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
		log:   p.Log.Named("purchase.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest) (*domain.Purchase, error) {
	if len(req.Lines) == 0 {
		return nil, domain.ErrEmptyPurchase
	}

	billedAt := s.clock.Now()
	if req.BilledAt != nil && !req.BilledAt.IsZero() {
		billedAt = *req.BilledAt
	}

	var purchase *domain.Purchase
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.SupplierID != 0 {
			var supplier partydomain.Party
			err := tx.Where("org_id = ? AND id = ? AND kind = ?", orgID, req.SupplierID, partydomain.KindSupplier).
				Limit(1).
				Find(&supplier).Error
			if err != nil {
				return err
			}
			if supplier.ID == 0 {
				return partydomain.ErrNotFound
			}
		}

		purchase = &domain.Purchase{
			ID:         s.genID.Generate(),
			OrgID:      orgID,
			SupplierID: req.SupplierID,
			BillNumber: strings.TrimSpace(req.BillNumber),
			BilledAt:   billedAt,
			CreatedAt:  billedAt,
			UpdatedAt:  billedAt,
		}

		for _, line := range req.Lines {
			name := strings.TrimSpace(line.Name)
			qty := line.Quantity
			if qty < 0 {
				qty = 0
			}
			amount := line.Amount
			if amount <= 0 {
				amount = float64(qty) * line.UnitCost
			}
			if amount < 0 {
				amount = 0
			}

			if line.ItemID != 0 {
				var item catalogdomain.Item
				err := tx.Where("org_id = ? AND id = ?", orgID, line.ItemID).
					Limit(1).
					Find(&item).Error
				if err != nil {
					return err
				}
				if item.ID == 0 {
					return catalogdomain.ErrNotFound
				}
				if name == "" {
					name = item.Name
				}
			}
			if name == "" {
				return domain.ErrInvalidPurchase
			}

			purchase.Lines = append(purchase.Lines, domain.Line{
				ID:         s.genID.Generate(),
				OrgID:      orgID,
				PurchaseID: purchase.ID,
				ItemID:     line.ItemID,
				Name:       name,
				Quantity:   qty,
				UnitCost:   line.UnitCost,
				Amount:     amount,
			})
			purchase.Total += amount
		}

		paid := req.AmountPaid
		if paid < 0 {
			paid = 0
		}
		if paid > purchase.Total {
			paid = purchase.Total
		}
		purchase.AmountPaid = paid
		purchase.Status = statusFor(paid, purchase.Total)

		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		for _, line := range purchase.Lines {
			if line.ItemID == 0 || line.Quantity == 0 {
				continue
			}
			updates := map[string]interface{}{
				"stock_qty": gorm.Expr("stock_qty + ?", line.Quantity),
			}
			if req.UpdatePurchasePrice && line.UnitCost > 0 {
				updates["purchase_price"] = line.UnitCost
			}
			err := tx.Model(&catalogdomain.Item{}).
				Where("org_id = ? AND id = ?", orgID, line.ItemID).
				Updates(updates).Error
			if err != nil {
				return err
			}
		}

		owed := purchase.Total - paid
		if req.SupplierID != 0 && owed != 0 {
			err := tx.Model(&partydomain.Party{}).
				Where("org_id = ? AND id = ?", orgID, req.SupplierID).
				Update("outstanding_balance", gorm.Expr("outstanding_balance + ?", owed)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase recorded",
		zap.Int64("org_id", int64(orgID)),
		zap.Float64("total", purchase.Total),
	)
	return purchase, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Purchase, error) {
	var purchase domain.Purchase
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&purchase).Error
	if err != nil {
		return nil, err
	}
	if purchase.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &purchase, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Purchase, error) {
	stmt := s.db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("org_id = ?", orgID)
	if filter.SupplierID != 0 {
		stmt = stmt.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if from, err := time.Parse("2006-01-02", filter.From); err == nil {
		stmt = stmt.Where("billed_at >= ?", from)
	}
	if to, err := time.Parse("2006-01-02", filter.To); err == nil {
		stmt = stmt.Where("billed_at < ?", to.AddDate(0, 0, 1))
	}

	var purchases []*domain.Purchase
	err := page.Apply(stmt).
		Order("billed_at desc, id desc").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *service) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase := &domain.Purchase{}
		err := tx.Preload("Lines").
			Where("org_id = ? AND id = ?", orgID, id).
			Limit(1).
			Find(purchase).Error
		if err != nil {
			return err
		}
		if purchase.ID == 0 {
			return domain.ErrNotFound
		}

		for _, line := range purchase.Lines {
			if line.ItemID == 0 || line.Quantity == 0 {
				continue
			}
			// Reversal may push stock negative when the goods were already
			// sold; that is surfaced by the restock report, not blocked here.
			err := tx.Model(&catalogdomain.Item{}).
				Where("org_id = ? AND id = ?", orgID, line.ItemID).
				Update("stock_qty", gorm.Expr("stock_qty - ?", line.Quantity)).Error
			if err != nil {
				return err
			}
		}

		owed := purchase.Total - purchase.AmountPaid
		if purchase.SupplierID != 0 && owed != 0 {
			err := tx.Model(&partydomain.Party{}).
				Where("org_id = ? AND id = ?", orgID, purchase.SupplierID).
				Update("outstanding_balance", gorm.Expr("outstanding_balance - ?", owed)).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&domain.Line{}).Error; err != nil {
			return err
		}
		return tx.Delete(purchase).Error
	})
}

func statusFor(paid, total float64) domain.Status {
	switch {
	case total > 0 && paid >= total:
		return domain.StatusPaid
	case paid > 0:
		return domain.StatusPartial
	default:
		return domain.StatusUnpaid
	}
}
