package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/pkg/db/pagination"
)

var (
	ErrNotFound     = errors.New("party not found")
	ErrInvalidParty = errors.New("invalid party")
)

type Service interface {
	Create(ctx context.Context, orgID snowflake.ID, req CreateRequest) (*Party, error)
	Update(ctx context.Context, orgID, id snowflake.ID, req UpdateRequest) (*Party, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Party, error)
	List(ctx context.Context, orgID snowflake.ID, kind Kind, page pagination.Pagination) ([]*Party, error)
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}

type CreateRequest struct {
	Kind      Kind   `json:"kind"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	GSTIN     string `json:"gstin"`
	StateCode string `json:"state_code"`

	OpeningBalance float64 `json:"opening_balance"`
}

type UpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Address   *string `json:"address,omitempty"`
	GSTIN     *string `json:"gstin,omitempty"`
	StateCode *string `json:"state_code,omitempty"`
}
