package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound      = errors.New("tenant not found")
	ErrInvalidTier   = errors.New("invalid plan tier")
	ErrSlugTaken     = errors.New("tenant slug already in use")
	ErrInvalidTenant = errors.New("invalid tenant")
)

type Service interface {
	// EnsureProvisioned fetches the tenant and auto-provisions a trial when
	// the record has no expiry (first authenticated access). The returned
	// state is derived fresh on every call.
	EnsureProvisioned(ctx context.Context, id snowflake.ID) (*Tenant, SubscriptionState, error)

	Create(ctx context.Context, req CreateRequest) (*Tenant, error)
	Get(ctx context.Context, id snowflake.ID) (*Tenant, error)

	// GetBySlug resolves a tenant from its public storefront slug.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	UpdateProfile(ctx context.Context, id snowflake.ID, req UpdateProfileRequest) (*Tenant, error)

	// Subscription management (administrator surface).
	ChangePlan(ctx context.Context, id snowflake.ID, tier string) (*Tenant, error)
	Renew(ctx context.Context, id snowflake.ID, days int) (*Tenant, error)
	Deactivate(ctx context.Context, id snowflake.ID) (*Tenant, error)
}

type CreateRequest struct {
	Name      string `json:"name"`
	GSTIN     string `json:"gstin"`
	StateCode string `json:"state_code"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	GSTScheme string `json:"gst_scheme"`
}

type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	GSTIN        *string `json:"gstin,omitempty"`
	StateCode    *string `json:"state_code,omitempty"`
	Address      *string `json:"address,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	BankDetails  *string `json:"bank_details,omitempty"`
	InvoiceTerms *string `json:"invoice_terms,omitempty"`
	SignaturePNG *string `json:"signature_png,omitempty"`
	GSTScheme    *string `json:"gst_scheme,omitempty"`
}

// EndOfDay normalizes an expiry to the last second of its day, so a trial
// granted at any hour runs through the whole final day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}
