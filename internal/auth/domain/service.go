package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrSessionExpired     = errors.New("session expired")
)

type Service interface {
	// Register creates the first user of a new tenant as its owner, or an
	// additional member when invited by an owner.
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*User, *AuthSession, error)
	Logout(ctx context.Context, token string) error

	// UserForToken validates a session token and returns its user.
	UserForToken(ctx context.Context, token string) (*User, error)

	// RoleForUser is the role fetch step of access resolution.
	RoleForUser(ctx context.Context, orgID, userID snowflake.ID) (string, error)
}

type RegisterRequest struct {
	OrgID    snowflake.ID `json:"organization_id,string"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Password string       `json:"password"`
	Role     string       `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
