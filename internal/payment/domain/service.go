package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

var (
	ErrNotFound       = errors.New("payment not found")
	ErrInvalidPayment = errors.New("invalid payment")
	ErrKindMismatch   = errors.New("payment kind does not match party kind")
)

type Service interface {
	// Record persists the settlement and moves the party's outstanding
	// balance in the same transaction. When the settlement references an
	// invoice or purchase, its paid amount and status move too.
	Record(ctx context.Context, orgID snowflake.ID, req RecordRequest) (*Payment, error)

	Get(ctx context.Context, orgID, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Payment, error)
}

type RecordRequest struct {
	PartyID snowflake.ID `json:"party_id"`
	Kind    Kind         `json:"kind"`
	Method  Method       `json:"method,omitempty"`
	Amount  float64      `json:"amount"`

	InvoiceID  snowflake.ID `json:"invoice_id,omitempty"`
	PurchaseID snowflake.ID `json:"purchase_id,omitempty"`

	Note   string     `json:"note,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

type ListFilter struct {
	PartyID snowflake.ID `form:"party_id"`
	Kind    Kind         `form:"kind"`
	From    string       `form:"from"`
	To      string       `form:"to"`
}
