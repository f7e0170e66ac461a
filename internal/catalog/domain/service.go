package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

var (
	ErrNotFound          = errors.New("item not found")
	ErrInvalidItem       = errors.New("invalid item")
	ErrDuplicateSlug     = errors.New("item slug already in use")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service interface {
	Create(ctx context.Context, orgID snowflake.ID, req CreateRequest) (*Item, error)
	Update(ctx context.Context, orgID, id snowflake.ID, req UpdateRequest) (*Item, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Item, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter, page pagination.Pagination) ([]*Item, error)
	Delete(ctx context.Context, orgID, id snowflake.ID) error

	// AdjustStock applies a signed delta. Negative adjustments below zero
	// fail with ErrInsufficientStock.
	AdjustStock(ctx context.Context, orgID, id snowflake.ID, delta int) (*Item, error)

	// PublicList is the customer-facing catalogue: listed items only.
	PublicList(ctx context.Context, orgID snowflake.ID, page pagination.Pagination) ([]*Item, error)
}

type CreateRequest struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	HSNCode       string  `json:"hsn_code"`
	Unit          string  `json:"unit"`
	ListPrice     float64 `json:"list_price"`
	PurchasePrice float64 `json:"purchase_price"`
	TaxRatePct    float64 `json:"tax_rate_pct"`
	StockQty      int     `json:"stock_qty"`
	RestockLevel  int     `json:"restock_level"`
	Listed        *bool   `json:"listed,omitempty"`
}

type UpdateRequest struct {
	Name          *string  `json:"name,omitempty"`
	SKU           *string  `json:"sku,omitempty"`
	HSNCode       *string  `json:"hsn_code,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	ListPrice     *float64 `json:"list_price,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	TaxRatePct    *float64 `json:"tax_rate_pct,omitempty"`
	RestockLevel  *int     `json:"restock_level,omitempty"`
	Listed        *bool    `json:"listed,omitempty"`
}

type ListFilter struct {
	Name        string `form:"name"`
	HSNCode     string `form:"hsn_code"`
	NeedRestock bool   `form:"need_restock"`
}
