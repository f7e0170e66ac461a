package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/clock"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/payment/domain"
	purchasedomain "github.com/smallbiznis/kirana/internal/purchase/domain"
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
		log:   p.Log.Named("payment.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *service) Record(ctx context.Context, orgID snowflake.ID, req domain.RecordRequest) (*domain.Payment, error) {
	if req.PartyID == 0 || req.Amount <= 0 {
		return nil, domain.ErrInvalidPayment
	}
	if req.Kind != domain.KindReceipt && req.Kind != domain.KindPayment {
		return nil, domain.ErrInvalidPayment
	}
	method := req.Method
	if method == "" {
		method = domain.MethodCash
	}

	paidAt := s.clock.Now()
	if req.PaidAt != nil && !req.PaidAt.IsZero() {
		paidAt = *req.PaidAt
	}

	payment := &domain.Payment{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		PartyID:    req.PartyID,
		Kind:       req.Kind,
		Method:     method,
		Amount:     req.Amount,
		InvoiceID:  req.InvoiceID,
		PurchaseID: req.PurchaseID,
		Note:       req.Note,
		PaidAt:     paidAt,
		CreatedAt:  paidAt,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var party partydomain.Party
		err := tx.Where("org_id = ? AND id = ?", orgID, req.PartyID).
			Limit(1).
			Find(&party).Error
		if err != nil {
			return err
		}
		if party.ID == 0 {
			return partydomain.ErrNotFound
		}

		// A receipt settles a customer; a payment settles a supplier.
		if (req.Kind == domain.KindReceipt) != (party.Kind == partydomain.KindCustomer) {
			return domain.ErrKindMismatch
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		err = tx.Model(&partydomain.Party{}).
			Where("org_id = ? AND id = ?", orgID, party.ID).
			Update("outstanding_balance", gorm.Expr("outstanding_balance - ?", req.Amount)).Error
		if err != nil {
			return err
		}

		if req.InvoiceID != 0 {
			if err := s.settleInvoice(tx, orgID, req.InvoiceID, req.Amount); err != nil {
				return err
			}
		}
		if req.PurchaseID != 0 {
			if err := s.settlePurchase(tx, orgID, req.PurchaseID, req.Amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.Int64("org_id", int64(orgID)),
		zap.String("kind", string(payment.Kind)),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

func (s *service) settleInvoice(tx *gorm.DB, orgID, invoiceID snowflake.ID, amount float64) error {
	var inv invoicedomain.Invoice
	err := tx.Where("org_id = ? AND id = ?", orgID, invoiceID).
		Limit(1).
		Find(&inv).Error
	if err != nil {
		return err
	}
	if inv.ID == 0 {
		return invoicedomain.ErrNotFound
	}

	paid := inv.AmountPaid + amount
	if paid > inv.RoundedTotal {
		paid = inv.RoundedTotal
	}
	status := invoicedomain.StatusPartial
	if inv.RoundedTotal > 0 && paid >= inv.RoundedTotal {
		status = invoicedomain.StatusPaid
	}

	return tx.Model(&invoicedomain.Invoice{}).
		Where("org_id = ? AND id = ?", orgID, invoiceID).
		Updates(map[string]interface{}{
			"amount_paid": paid,
			"status":      status,
		}).Error
}

func (s *service) settlePurchase(tx *gorm.DB, orgID, purchaseID snowflake.ID, amount float64) error {
	var purchase purchasedomain.Purchase
	err := tx.Where("org_id = ? AND id = ?", orgID, purchaseID).
		Limit(1).
		Find(&purchase).Error
	if err != nil {
		return err
	}
	if purchase.ID == 0 {
		return purchasedomain.ErrNotFound
	}

	paid := purchase.AmountPaid + amount
	if paid > purchase.Total {
		paid = purchase.Total
	}
	status := purchasedomain.StatusPartial
	if purchase.Total > 0 && paid >= purchase.Total {
		status = purchasedomain.StatusPaid
	}

	return tx.Model(&purchasedomain.Purchase{}).
		Where("org_id = ? AND id = ?", orgID, purchaseID).
		Updates(map[string]interface{}{
			"amount_paid": paid,
			"status":      status,
		}).Error
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &payment, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Payment, error) {
	stmt := s.db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("org_id = ?", orgID)
	if filter.PartyID != 0 {
		stmt = stmt.Where("party_id = ?", filter.PartyID)
	}
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	if from, err := time.Parse("2006-01-02", filter.From); err == nil {
		stmt = stmt.Where("paid_at >= ?", from)
	}
	if to, err := time.Parse("2006-01-02", filter.To); err == nil {
		stmt = stmt.Where("paid_at < ?", to.AddDate(0, 0, 1))
	}

	var payments []*domain.Payment
	err := page.Apply(stmt).
		Order("paid_at desc, id desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
