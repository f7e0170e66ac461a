package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

var (
	ErrNotFound       = errors.New("invoice not found")
	ErrEmptyInvoice   = errors.New("invoice has no lines")
	ErrInvalidInvoice = errors.New("invalid invoice")
)

type Service interface {
	// Create computes, numbers, and persists a sales invoice. Stock for
	// catalogue-backed lines and the customer's outstanding balance move in
	// the same transaction as the invoice rows.
	Create(ctx context.Context, orgID snowflake.ID, req CreateRequest) (*Invoice, error)

	Get(ctx context.Context, orgID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Invoice, error)

	// Delete removes the invoice and reverses its side effects: stock is
	// restored and the customer's outstanding balance is reduced.
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}

// LineRequest is one raw line as submitted. When ItemID is set, missing
// descriptive fields are filled from the catalogue item; submitted values
// win over catalogue values.
type LineRequest struct {
	ItemID   snowflake.ID `json:"item_id,omitempty"`
	Name     string       `json:"name"`
	HSNCode  string       `json:"hsn_code"`
	Quantity int          `json:"quantity"`
	Unit     string       `json:"unit"`

	ListPrice      float64  `json:"list_price"`
	DiscountAmount float64  `json:"discount_amount"`
	Amount         float64  `json:"amount"`
	RatePct        *float64 `json:"rate_pct,omitempty"`
}

// BillTo identifies the buyer either by customer reference or inline.
type BillTo struct {
	CustomerID snowflake.ID `json:"customer_id,omitempty"`

	Name      string `json:"name,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
	StateCode string `json:"state_code,omitempty"`
}

// ShipTo is the optional delivery address; when empty the rendered
// document repeats the billing address.
type ShipTo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

type CreateRequest struct {
	BillTo   BillTo        `json:"bill_to"`
	ShipTo   ShipTo        `json:"ship_to,omitempty"`
	IssuedAt *time.Time    `json:"issued_at,omitempty"`
	TaxType  string        `json:"tax_type,omitempty"`
	Lines    []LineRequest `json:"lines"`

	// AmountPaid records an immediate settlement at the counter; it is
	// clamped to the rounded total.
	AmountPaid float64 `json:"amount_paid,omitempty"`
}

type ListFilter struct {
	CustomerID snowflake.ID `form:"customer_id"`
	Status     Status       `form:"status"`
	From       string       `form:"from"`
	To         string       `form:"to"`
}
