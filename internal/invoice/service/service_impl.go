package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/invoice/domain"
	"github.com/smallbiznis/kirana/internal/invoice/format"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	"github.com/smallbiznis/kirana/internal/tax"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Cfg     config.Config
	Tenants tenantdomain.Service
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	cfg     config.Config
	tenants tenantdomain.Service
}

func New(p ServiceParam) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		cfg:     p.Cfg,
		tenants: p.Tenants,
	}
}

func (s *service) Create(ctx context.Context, orgID snowflake.ID, req domain.CreateRequest) (*domain.Invoice, error) {
	if len(req.Lines) == 0 {
		return nil, domain.ErrEmptyInvoice
	}

	tenant, err := s.tenants.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}

	issuedAt := s.clock.Now()
	if req.IssuedAt != nil && !req.IssuedAt.IsZero() {
		issuedAt = *req.IssuedAt
	}

	billTo, err := s.resolveBillTo(ctx, orgID, req.BillTo)
	if err != nil {
		return nil, err
	}

	scheme := tax.ParseScheme(tenant.GSTScheme)
	jurisdiction := tax.JurisdictionFor(tenant.StateCode, billTo.StateCode)

	var invoice *domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inputs, err := s.resolveLines(tx, orgID, req.Lines)
		if err != nil {
			return err
		}

		result := tax.ComputeInvoice(scheme, jurisdiction, inputs)

		seq, err := nextSequence(tx, orgID)
		if err != nil {
			return err
		}
		template := s.cfg.InvoiceNumberFormat
		if template == "" {
			template = format.DefaultTemplate
		}
		number, err := format.Number(template, issuedAt, seq)
		if err != nil {
			return err
		}

		paid := req.AmountPaid
		if paid < 0 {
			paid = 0
		}
		if paid > result.RoundedTotal {
			paid = result.RoundedTotal
		}

		invoice = &domain.Invoice{
			ID:           s.genID.Generate(),
			OrgID:        orgID,
			Number:       number,
			CustomerID:   billTo.CustomerID,
			BillToName:   billTo.Name,
			BillToAddr:   billTo.Address,
			BillToPhone:  billTo.Phone,
			BillToGSTIN:  billTo.GSTIN,
			BillToState:  billTo.StateCode,
			ShipToName:   strings.TrimSpace(req.ShipTo.Name),
			ShipToAddr:   strings.TrimSpace(req.ShipTo.Address),
			IssuedAt:     issuedAt,
			Scheme:       result.Scheme,
			Jurisdiction: result.Jurisdiction,
			TaxType:      normalizeTaxType(req.TaxType),

			TotalQuantity:     result.TotalQuantity,
			TotalTaxableValue: result.TotalTaxableValue,
			TotalTaxAmount:    result.TotalTaxAmount,
			GrossTotal:        result.GrossTotal,
			RoundedTotal:      result.RoundedTotal,
			RoundingDelta:     result.RoundingDelta,

			AmountPaid: paid,
			Status:     statusFor(paid, result.RoundedTotal),

			TermsText:   tenant.InvoiceTerms,
			BankDetails: tenant.BankDetails,

			CreatedAt: issuedAt,
			UpdatedAt: issuedAt,
		}

		for i, line := range result.Lines {
			invoice.Lines = append(invoice.Lines, domain.Line{
				ID:              s.genID.Generate(),
				OrgID:           orgID,
				InvoiceID:       invoice.ID,
				SNo:             line.SNo,
				ItemID:          req.Lines[i].ItemID,
				Name:            line.Name,
				HSNCode:         line.HSNCode,
				Quantity:        line.Quantity,
				Unit:            line.Unit,
				ListPrice:       line.ListPrice,
				DisplayDiscount: line.DisplayDiscount,
				RatePct:         line.RatePct,
				RowTotal:        line.RowTotal,
				TaxableValue:    line.TaxableValue,
				TaxAmount:       line.TaxAmount,
				CGST:            line.CGST,
				SGST:            line.SGST,
				IGST:            line.IGST,
			})
		}

		if err := tx.Create(invoice).Error; err != nil {
			return err
		}

		if err := s.moveStock(tx, orgID, invoice.Lines, -1); err != nil {
			return err
		}

		outstanding := result.RoundedTotal - paid
		if billTo.CustomerID != 0 && outstanding != 0 {
			if err := bumpOutstanding(tx, orgID, billTo.CustomerID, outstanding); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.Int64("org_id", int64(orgID)),
		zap.String("number", invoice.Number),
		zap.Float64("rounded_total", invoice.RoundedTotal),
	)
	return invoice, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("s_no asc") }).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &invoice, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	stmt := s.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("org_id = ?", orgID)
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if from, err := time.Parse("2006-01-02", filter.From); err == nil {
		stmt = stmt.Where("issued_at >= ?", from)
	}
	if to, err := time.Parse("2006-01-02", filter.To); err == nil {
		stmt = stmt.Where("issued_at < ?", to.AddDate(0, 0, 1))
	}

	var invoices []*domain.Invoice
	err := page.Apply(stmt).
		Order("issued_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (s *service) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice := &domain.Invoice{}
		err := tx.Preload("Lines").
			Where("org_id = ? AND id = ?", orgID, id).
			Limit(1).
			Find(invoice).Error
		if err != nil {
			return err
		}
		if invoice.ID == 0 {
			return domain.ErrNotFound
		}

		if err := s.moveStock(tx, orgID, invoice.Lines, +1); err != nil {
			return err
		}
		outstanding := invoice.RoundedTotal - invoice.AmountPaid
		if invoice.CustomerID != 0 && outstanding != 0 {
			if err := bumpOutstanding(tx, orgID, invoice.CustomerID, -outstanding); err != nil {
				return err
			}
		}

		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&domain.Line{}).Error; err != nil {
			return err
		}
		return tx.Delete(invoice).Error
	})
}

// resolveBillTo fills buyer fields from the customer record when one is
// referenced; inline fields win over stored ones.
func (s *service) resolveBillTo(ctx context.Context, orgID snowflake.ID, in domain.BillTo) (domain.BillTo, error) {
	out := in
	out.Name = strings.TrimSpace(out.Name)
	if in.CustomerID == 0 {
		return out, nil
	}

	var party partydomain.Party
	err := s.db.WithContext(ctx).
		Where("org_id = ? AND id = ? AND kind = ?", orgID, in.CustomerID, partydomain.KindCustomer).
		Limit(1).
		Find(&party).Error
	if err != nil {
		return out, err
	}
	if party.ID == 0 {
		return out, partydomain.ErrNotFound
	}

	if out.Name == "" {
		out.Name = party.Name
	}
	if out.Address == "" {
		out.Address = party.Address
	}
	if out.Phone == "" {
		out.Phone = party.Phone
	}
	if out.GSTIN == "" {
		out.GSTIN = party.GSTIN
	}
	if out.StateCode == "" {
		out.StateCode = party.StateCode
	}
	return out, nil
}

// resolveLines converts raw line requests into engine inputs, filling
// descriptive defaults from referenced catalogue items.
func (s *service) resolveLines(tx *gorm.DB, orgID snowflake.ID, lines []domain.LineRequest) ([]tax.LineInput, error) {
	inputs := make([]tax.LineInput, 0, len(lines))
	for i, line := range lines {
		in := tax.LineInput{
			SNo:            i + 1,
			Name:           strings.TrimSpace(line.Name),
			HSNCode:        strings.TrimSpace(line.HSNCode),
			Quantity:       line.Quantity,
			Unit:           strings.TrimSpace(line.Unit),
			ListPrice:      line.ListPrice,
			DiscountAmount: line.DiscountAmount,
			Amount:         line.Amount,
		}
		if line.RatePct != nil {
			in.RatePct = *line.RatePct
		}

		if line.ItemID != 0 {
			var item catalogdomain.Item
			err := tx.Where("org_id = ? AND id = ?", orgID, line.ItemID).
				Limit(1).
				Find(&item).Error
			if err != nil {
				return nil, err
			}
			if item.ID == 0 {
				return nil, catalogdomain.ErrNotFound
			}
			if in.Name == "" {
				in.Name = item.Name
			}
			if in.HSNCode == "" {
				in.HSNCode = item.HSNCode
			}
			if in.Unit == "" {
				in.Unit = item.Unit
			}
			if in.ListPrice <= 0 {
				in.ListPrice = item.ListPrice
			}
			if line.RatePct == nil {
				in.RatePct = item.TaxRatePct
			}
		}

		if in.Name == "" {
			return nil, domain.ErrInvalidInvoice
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// moveStock applies sign*quantity to every catalogue-backed line. A sale
// uses sign -1 and fails when stock would go negative.
func (s *service) moveStock(tx *gorm.DB, orgID snowflake.ID, lines []domain.Line, sign int) error {
	for _, line := range lines {
		if line.ItemID == 0 || line.Quantity == 0 {
			continue
		}
		delta := sign * line.Quantity
		stmt := tx.Model(&catalogdomain.Item{}).
			Where("org_id = ? AND id = ?", orgID, line.ItemID)
		if delta < 0 {
			stmt = stmt.Where("stock_qty >= ?", -delta)
		}
		res := stmt.Update("stock_qty", gorm.Expr("stock_qty + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return catalogdomain.ErrInsufficientStock
		}
	}
	return nil
}

func bumpOutstanding(tx *gorm.DB, orgID, partyID snowflake.ID, delta float64) error {
	return tx.Model(&partydomain.Party{}).
		Where("org_id = ? AND id = ?", orgID, partyID).
		Update("outstanding_balance", gorm.Expr("outstanding_balance + ?", delta)).Error
}

// nextSequence allocates the per-tenant invoice sequence inside the caller's
// transaction.
func nextSequence(tx *gorm.DB, orgID snowflake.ID) (int64, error) {
	var seq domain.Sequence
	if err := tx.Where("org_id = ?", orgID).Limit(1).Find(&seq).Error; err != nil {
		return 0, err
	}
	if seq.OrgID == 0 {
		seq = domain.Sequence{OrgID: orgID, NextSeq: 2}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}

	allocated := seq.NextSeq
	err := tx.Model(&domain.Sequence{}).
		Where("org_id = ?", orgID).
		Update("next_seq", gorm.Expr("next_seq + 1")).Error
	if err != nil {
		return 0, err
	}
	return allocated, nil
}

func normalizeTaxType(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "INCLUSIVE") {
		return "INCLUSIVE"
	}
	return "EXCLUSIVE"
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
