// Package domain contains persistence models for purchase records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// Purchase is one inbound supplier bill. It moves stock in and raises the
// amount owed to the supplier.
type Purchase struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"organization_id"`

	SupplierID snowflake.ID `gorm:"index" json:"supplier_id,omitempty"`
	BillNumber string       `gorm:"type:text" json:"bill_number,omitempty"` // supplier's own number
	BilledAt   time.Time    `gorm:"not null" json:"billed_at"`

	Total      float64 `gorm:"not null;default:0" json:"total"`
	AmountPaid float64 `gorm:"not null;default:0" json:"amount_paid"`
	Status     Status  `gorm:"type:text;not null;default:'UNPAID'" json:"status"`

	Lines []Line `gorm:"foreignKey:PurchaseID" json:"lines"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Purchase) TableName() string { return "purchases" }

type Line struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PurchaseID snowflake.ID `gorm:"not null;index" json:"purchase_id"`

	ItemID   snowflake.ID `gorm:"index" json:"item_id,omitempty"`
	Name     string       `gorm:"not null" json:"name"`
	Quantity int          `gorm:"not null;default:0" json:"quantity"`
	UnitCost float64      `gorm:"not null;default:0" json:"unit_cost"`
	Amount   float64      `gorm:"not null;default:0" json:"amount"`
}

func (Line) TableName() string { return "purchase_lines" }
