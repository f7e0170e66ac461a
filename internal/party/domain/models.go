package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Kind string

const (
	KindCustomer Kind = "customer"
	KindSupplier Kind = "supplier"
)

// Party is a customer or supplier of the tenant. OutstandingBalance is the
// amount the party owes (customer) or is owed (supplier); settlement moves
// it inside the same transaction as the payment row.
type Party struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Kind  Kind         `gorm:"type:text;not null;index" json:"kind"`

	Name      string `gorm:"not null" json:"name"`
	Phone     string `gorm:"type:text" json:"phone,omitempty"`
	Email     string `gorm:"type:text" json:"email,omitempty"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	GSTIN     string `gorm:"type:text" json:"gstin,omitempty"`
	StateCode string `gorm:"type:text" json:"state_code,omitempty"`

	OutstandingBalance float64 `gorm:"not null;default:0" json:"outstanding_balance"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Party) TableName() string { return "parties" }
