package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is a tenant member. kirana keeps membership on the user row: one
// user belongs to exactly one tenant.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID        snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	Name         string       `gorm:"type:text" json:"name"`
	Role         string       `gorm:"type:text;not null" json:"role"`
	PasswordHash string       `gorm:"not null" json:"-"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// AuthSession is a persisted login token. The access grant itself is never
// stored; it is re-derived from the tenant and role maps on every request.
type AuthSession struct {
	Token     string       `gorm:"primaryKey" json:"-"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuthSession) TableName() string { return "auth_sessions" }
