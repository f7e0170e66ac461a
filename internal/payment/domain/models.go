// Package domain contains persistence models for settlements.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindReceipt Kind = "receipt" // from a customer
	KindPayment Kind = "payment" // to a supplier
)

type Method string

const (
	MethodCash Method = "cash"
	MethodUPI  Method = "upi"
	MethodCard Method = "card"
	MethodBank Method = "bank"
)

// Payment is one settlement against a party's outstanding balance,
// optionally tied to a specific invoice or purchase.
type Payment struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"organization_id"`

	PartyID snowflake.ID `gorm:"not null;index" json:"party_id"`
	Kind    Kind         `gorm:"type:text;not null" json:"kind"`
	Method  Method       `gorm:"type:text;not null;default:'cash'" json:"method"`
	Amount  float64      `gorm:"not null" json:"amount"`

	InvoiceID  snowflake.ID `gorm:"index" json:"invoice_id,omitempty"`
	PurchaseID snowflake.ID `gorm:"index" json:"purchase_id,omitempty"`

	Note   string    `gorm:"type:text" json:"note,omitempty"`
	PaidAt time.Time `gorm:"not null" json:"paid_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
