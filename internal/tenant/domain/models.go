// Package domain contains persistence models for tenants and their
// subscription state.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/permission"
	"gorm.io/datatypes"
)

// Validity is the administrator-controlled subscription flag. It is combined
// with the expiry instant to decide whether the tenant is active.
type Validity string

const (
	ValidityActive   Validity = "active"
	ValidityInactive Validity = "inactive"
)

// Tenant is one isolated company account. Every other row in the system is
// partitioned by its ID.
type Tenant struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"not null" json:"name"`
	Slug string       `gorm:"uniqueIndex;not null" json:"slug"`

	GSTIN     string `gorm:"type:text" json:"gstin,omitempty"`
	StateCode string `gorm:"type:text" json:"state_code,omitempty"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	Phone     string `gorm:"type:text" json:"phone,omitempty"`
	Email     string `gorm:"type:text" json:"email,omitempty"`

	// Invoice presentation defaults.
	BankDetails   string `gorm:"type:text" json:"bank_details,omitempty"`
	InvoiceTerms  string `gorm:"type:text" json:"invoice_terms,omitempty"`
	SignaturePNG  string `gorm:"type:text" json:"-"` // base64, optional
	GSTScheme     string `gorm:"type:text;not null;default:'NONE'" json:"gst_scheme"`

	PlanTier  string     `gorm:"type:text;not null" json:"plan_tier"`
	Validity  Validity   `gorm:"type:text;not null;default:'active'" json:"validity"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsTrial   bool       `gorm:"not null;default:false" json:"is_trial"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tenant) TableName() string { return "tenants" }

// SubscriptionState is the derived, never-persisted snapshot exposed on the
// session. The tier is always the stored tier, even when expired, so the UI
// can say "your pro plan expired" instead of silently downgrading.
type SubscriptionState struct {
	Active    bool                `json:"active"`
	Tier      permission.PlanTier `json:"tier"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
	IsTrial   bool                `json:"is_trial"`
}

// Resolve computes the subscription snapshot at the given instant.
func (t *Tenant) Resolve(now time.Time) SubscriptionState {
	state := SubscriptionState{
		Tier:    permission.ParseTier(t.PlanTier),
		IsTrial: t.IsTrial,
	}
	if t.ExpiresAt != nil {
		expires := *t.ExpiresAt
		state.ExpiresAt = &expires
		state.Active = t.Validity == ValidityActive && now.Before(expires)
	}
	return state
}
