// Package domain defines the read-only reporting surface.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/tax"
)

var ErrInvalidPeriod = errors.New("invalid report period")

// Period is a half-open [From, To) date range.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) Valid() bool {
	return !p.From.IsZero() && !p.To.IsZero() && p.From.Before(p.To)
}

// TaxSummary aggregates GST over finalized sales in a period. For
// Composition filers the levy is a flat percentage of turnover instead of
// the per-line sums.
type TaxSummary struct {
	Scheme   tax.Scheme `json:"scheme"`
	Period   Period     `json:"period"`
	Invoices int64      `json:"invoices"`

	Turnover     float64 `json:"turnover"`
	TaxableValue float64 `json:"taxable_value"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	TotalTax     float64 `json:"total_tax"`

	// CompositionLevy is nonzero only under the Composition scheme.
	CompositionLevy    float64 `json:"composition_levy,omitempty"`
	CompositionRatePct float64 `json:"composition_rate_pct,omitempty"`

	Slabs []tax.RateSlab `json:"slabs,omitempty"`
}

// ProfitAndLoss is the cash-basis view over a period.
type ProfitAndLoss struct {
	Period Period `json:"period"`

	SalesTotal    float64 `json:"sales_total"`
	PurchaseTotal float64 `json:"purchase_total"`
	GrossProfit   float64 `json:"gross_profit"`

	ReceiptsTotal float64 `json:"receipts_total"`
	PaymentsTotal float64 `json:"payments_total"`
}

// OutstandingRow is one party with money still owed.
type OutstandingRow struct {
	PartyID     snowflake.ID `json:"party_id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone,omitempty"`
	Outstanding float64      `json:"outstanding"`
}

// RestockRow is one item at or below its restock level.
type RestockRow struct {
	ItemID       snowflake.ID `json:"item_id"`
	Name         string       `json:"name"`
	StockQty     int          `json:"stock_qty"`
	RestockLevel int          `json:"restock_level"`
}

type Service interface {
	TaxSummary(ctx context.Context, orgID snowflake.ID, period Period) (*TaxSummary, error)
	ProfitAndLoss(ctx context.Context, orgID snowflake.ID, period Period) (*ProfitAndLoss, error)
	Outstanding(ctx context.Context, orgID snowflake.ID, kind string) ([]OutstandingRow, error)
	Restock(ctx context.Context, orgID snowflake.ID) ([]RestockRow, error)
}
