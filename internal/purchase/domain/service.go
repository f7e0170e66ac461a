package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

var (
	ErrNotFound        = errors.New("purchase not found")
	ErrEmptyPurchase   = errors.New("purchase has no lines")
	ErrInvalidPurchase = errors.New("invalid purchase")
)

type Service interface {
	// Create persists a supplier bill. Stock for catalogue-backed lines and
	// the supplier's outstanding balance move in the same transaction.
	Create(ctx context.Context, orgID snowflake.ID, req CreateRequest) (*Purchase, error)

	Get(ctx context.Context, orgID, id snowflake.ID) (*Purchase, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Purchase, error)

	// Delete removes the bill and reverses its stock and balance effects.
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}

type LineRequest struct {
	ItemID   snowflake.ID `json:"item_id,omitempty"`
	Name     string       `json:"name"`
	Quantity int          `json:"quantity"`
	UnitCost float64      `json:"unit_cost"`

	// Amount, when positive, overrides Quantity*UnitCost.
	Amount float64 `json:"amount,omitempty"`
}

type CreateRequest struct {
	SupplierID snowflake.ID  `json:"supplier_id,omitempty"`
	BillNumber string        `json:"bill_number,omitempty"`
	BilledAt   *time.Time    `json:"billed_at,omitempty"`
	Lines      []LineRequest `json:"lines"`

	// AmountPaid records an immediate settlement, clamped to the total.
	AmountPaid float64 `json:"amount_paid,omitempty"`

	// UpdatePurchasePrice writes each line's unit cost back onto the
	// catalogue item, so margins track the latest buy price.
	UpdatePurchasePrice bool `json:"update_purchase_price,omitempty"`
}

type ListFilter struct {
	SupplierID snowflake.ID `form:"supplier_id"`
	Status     Status       `form:"status"`
	From       string       `form:"from"`
	To         string       `form:"to"`
}
