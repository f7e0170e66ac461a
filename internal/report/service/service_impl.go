package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kirana/internal/catalog/domain"
	"github.com/smallbiznis/kirana/internal/config"
	invoicedomain "github.com/smallbiznis/kirana/internal/invoice/domain"
	partydomain "github.com/smallbiznis/kirana/internal/party/domain"
	paymentdomain "github.com/smallbiznis/kirana/internal/payment/domain"
	purchasedomain "github.com/smallbiznis/kirana/internal/purchase/domain"
	"github.com/smallbiznis/kirana/internal/report/domain"
	"github.com/smallbiznis/kirana/internal/tax"
	tenantdomain "github.com/smallbiznis/kirana/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Cfg     config.Config
	Tenants tenantdomain.Service
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	cfg     config.Config
	tenants tenantdomain.Service
}

func New(p ServiceParam) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("report.service"),
		cfg:     p.Cfg,
		tenants: p.Tenants,
	}
}

func (s *service) TaxSummary(ctx context.Context, orgID snowflake.ID, period domain.Period) (*domain.TaxSummary, error) {
	if !period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}

	tenant, err := s.tenants.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	scheme := tax.ParseScheme(tenant.GSTScheme)

	summary := &domain.TaxSummary{Scheme: scheme, Period: period}

	row := struct {
		Invoices int64
		Turnover float64
		Taxable  float64
		TotalTax float64
	}{}
	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("COUNT(*) AS invoices, COALESCE(SUM(rounded_total),0) AS turnover, COALESCE(SUM(total_taxable_value),0) AS taxable, COALESCE(SUM(total_tax_amount),0) AS total_tax").
		Where("org_id = ? AND issued_at >= ? AND issued_at < ?", orgID, period.From, period.To).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	summary.Invoices = row.Invoices
	summary.Turnover = row.Turnover
	summary.TaxableValue = row.Taxable
	summary.TotalTax = row.TotalTax

	if scheme == tax.SchemeComposition {
		summary.CompositionRatePct = s.cfg.CompositionRatePct
		summary.CompositionLevy = tax.CompositionTax(summary.Turnover, s.cfg.CompositionRatePct)
		return summary, nil
	}

	var lines []invoicedomain.Line
	err = s.db.WithContext(ctx).
		Joins("JOIN invoices ON invoices.id = invoice_lines.invoice_id").
		Where("invoice_lines.org_id = ? AND invoices.issued_at >= ? AND invoices.issued_at < ?", orgID, period.From, period.To).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	resolved := make([]tax.Line, 0, len(lines))
	for _, l := range lines {
		summary.CGST += l.CGST
		summary.SGST += l.SGST
		summary.IGST += l.IGST
		resolved = append(resolved, tax.Line{
			RatePct:      l.RatePct,
			TaxableValue: l.TaxableValue,
			TaxAmount:    l.TaxAmount,
			CGST:         l.CGST,
			SGST:         l.SGST,
			IGST:         l.IGST,
		})
	}
	summary.Slabs = tax.SlabsOf(resolved)

	return summary, nil
}

func (s *service) ProfitAndLoss(ctx context.Context, orgID snowflake.ID, period domain.Period) (*domain.ProfitAndLoss, error) {
	if !period.Valid() {
		return nil, domain.ErrInvalidPeriod
	}

	pnl := &domain.ProfitAndLoss{Period: period}

	err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("COALESCE(SUM(rounded_total),0)").
		Where("org_id = ? AND issued_at >= ? AND issued_at < ?", orgID, period.From, period.To).
		Scan(&pnl.SalesTotal).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&purchasedomain.Purchase{}).
		Select("COALESCE(SUM(total),0)").
		Where("org_id = ? AND billed_at >= ? AND billed_at < ?", orgID, period.From, period.To).
		Scan(&pnl.PurchaseTotal).Error
	if err != nil {
		return nil, err
	}
	pnl.GrossProfit = pnl.SalesTotal - pnl.PurchaseTotal

	err = s.db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Select("COALESCE(SUM(amount),0)").
		Where("org_id = ? AND kind = ? AND paid_at >= ? AND paid_at < ?", orgID, paymentdomain.KindReceipt, period.From, period.To).
		Scan(&pnl.ReceiptsTotal).Error
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Select("COALESCE(SUM(amount),0)").
		Where("org_id = ? AND kind = ? AND paid_at >= ? AND paid_at < ?", orgID, paymentdomain.KindPayment, period.From, period.To).
		Scan(&pnl.PaymentsTotal).Error
	if err != nil {
		return nil, err
	}

	return pnl, nil
}

func (s *service) Outstanding(ctx context.Context, orgID snowflake.ID, kind string) ([]domain.OutstandingRow, error) {
	stmt := s.db.WithContext(ctx).
		Model(&partydomain.Party{}).
		Select("id AS party_id, name, phone, outstanding_balance AS outstanding").
		Where("org_id = ? AND outstanding_balance > 0", orgID)
	if kind != "" {
		stmt = stmt.Where("kind = ?", kind)
	}

	var rows []domain.OutstandingRow
	if err := stmt.Order("outstanding_balance DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *service) Restock(ctx context.Context, orgID snowflake.ID) ([]domain.RestockRow, error) {
	var rows []domain.RestockRow
	err := s.db.WithContext(ctx).
		Model(&catalogdomain.Item{}).
		Select("id AS item_id, name, stock_qty, restock_level").
		Where("org_id = ? AND restock_level > 0 AND stock_qty <= restock_level", orgID).
		Order("stock_qty ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
