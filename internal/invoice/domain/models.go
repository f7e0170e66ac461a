// Package domain contains persistence models for sales invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/tax"
)

type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// Invoice is a finalized sales document. Totals are computed once at
// creation and never recomputed afterwards.
type Invoice struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID  snowflake.ID `gorm:"not null;index:idx_invoices_org_number,unique" json:"organization_id"`
	Number string       `gorm:"not null;index:idx_invoices_org_number,unique" json:"number"`

	CustomerID   snowflake.ID     `gorm:"index" json:"customer_id,omitempty"`
	BillToName   string           `gorm:"type:text" json:"bill_to_name"`
	BillToAddr   string           `gorm:"type:text" json:"bill_to_address,omitempty"`
	BillToPhone  string           `gorm:"type:text" json:"bill_to_phone,omitempty"`
	BillToGSTIN  string           `gorm:"type:text" json:"bill_to_gstin,omitempty"`
	BillToState  string           `gorm:"type:text" json:"bill_to_state_code,omitempty"`
	ShipToName   string           `gorm:"type:text" json:"ship_to_name,omitempty"`
	ShipToAddr   string           `gorm:"type:text" json:"ship_to_address,omitempty"`
	IssuedAt     time.Time        `gorm:"not null" json:"issued_at"`
	Scheme       tax.Scheme       `gorm:"type:text;not null" json:"scheme"`
	Jurisdiction tax.Jurisdiction `gorm:"type:text;not null" json:"jurisdiction"`

	// TaxType is carried from the input for display but is informational
	// only: under the Regular scheme row totals are always tax inclusive.
	TaxType string `gorm:"type:text;not null;default:'EXCLUSIVE'" json:"tax_type"`

	TotalQuantity     int     `gorm:"not null;default:0" json:"total_quantity"`
	TotalTaxableValue float64 `gorm:"not null;default:0" json:"total_taxable_value"`
	TotalTaxAmount    float64 `gorm:"not null;default:0" json:"total_tax_amount"`
	GrossTotal        float64 `gorm:"not null;default:0" json:"gross_total"`
	RoundedTotal      float64 `gorm:"not null;default:0" json:"rounded_total"`
	RoundingDelta     float64 `gorm:"not null;default:0" json:"rounding_delta"`

	AmountPaid float64 `gorm:"not null;default:0" json:"amount_paid"`
	Status     Status  `gorm:"type:text;not null;default:'UNPAID'" json:"status"`

	TermsText   string `gorm:"type:text" json:"terms_text,omitempty"`
	BankDetails string `gorm:"type:text" json:"bank_details,omitempty"`

	Lines []Line `gorm:"foreignKey:InvoiceID" json:"lines"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// Line is one resolved invoice line as computed by the tax engine.
type Line struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	InvoiceID snowflake.ID `gorm:"not null;index" json:"invoice_id"`

	SNo      int          `gorm:"not null" json:"sno"`
	ItemID   snowflake.ID `gorm:"index" json:"item_id,omitempty"`
	Name     string       `gorm:"not null" json:"name"`
	HSNCode  string       `gorm:"type:text" json:"hsn_code,omitempty"`
	Quantity int          `gorm:"not null;default:0" json:"quantity"`
	Unit     string       `gorm:"type:text" json:"unit,omitempty"`

	ListPrice       float64 `gorm:"not null;default:0" json:"list_price"`
	DisplayDiscount float64 `gorm:"not null;default:0" json:"display_discount"`
	RatePct         float64 `gorm:"not null;default:0" json:"rate_pct"`
	RowTotal        float64 `gorm:"not null;default:0" json:"row_total"`
	TaxableValue    float64 `gorm:"not null;default:0" json:"taxable_value"`
	TaxAmount       float64 `gorm:"not null;default:0" json:"tax_amount"`
	CGST            float64 `gorm:"not null;default:0" json:"cgst"`
	SGST            float64 `gorm:"not null;default:0" json:"sgst"`
	IGST            float64 `gorm:"not null;default:0" json:"igst"`
}

func (Line) TableName() string { return "invoice_lines" }

// Sequence is the per-tenant monotonic counter feeding the invoice number
// template.
type Sequence struct {
	OrgID   snowflake.ID `gorm:"primaryKey" json:"organization_id"`
	NextSeq int64        `gorm:"not null;default:1" json:"next_seq"`
}

func (Sequence) TableName() string { return "invoice_sequences" }
