package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Item is one sellable catalogue entry, also carrying its inventory state.
type Item struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"not null;index:idx_items_org_slug,unique" json:"organization_id"`

	Name    string `gorm:"not null" json:"name"`
	SKU     string `gorm:"type:text" json:"sku,omitempty"`
	Slug    string `gorm:"not null;index:idx_items_org_slug,unique" json:"slug"`
	HSNCode string `gorm:"type:text" json:"hsn_code,omitempty"`
	Unit    string `gorm:"type:text;not null;default:'pcs'" json:"unit"`

	ListPrice     float64 `gorm:"not null;default:0" json:"list_price"`
	PurchasePrice float64 `gorm:"not null;default:0" json:"purchase_price"`
	TaxRatePct    float64 `gorm:"not null;default:0" json:"tax_rate_pct"`

	StockQty     int  `gorm:"not null;default:0" json:"stock_qty"`
	RestockLevel int  `gorm:"not null;default:0" json:"restock_level"`
	Listed       bool `gorm:"not null;default:true" json:"listed"` // visible on the public catalogue

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Item) TableName() string { return "items" }
