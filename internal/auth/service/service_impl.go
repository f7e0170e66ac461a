package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/kirana/internal/auth/domain"
	"github.com/smallbiznis/kirana/internal/auth/password"
	"github.com/smallbiznis/kirana/internal/authorization"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTTL = 12 * time.Hour

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
}

func New(p ServiceParam) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 || req.OrgID == 0 {
		return nil, domain.ErrInvalidRequest
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = authorization.RoleOwner
	}
	if _, ok := authorization.DefaultRolePermissions(role); !ok {
		return nil, domain.ErrInvalidRequest
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		OrgID:        req.OrgID,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, *domain.AuthSession, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user domain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&user).Error
	if err != nil {
		return nil, nil, err
	}
	if user.ID == 0 || !password.Verify(user.PasswordHash, req.Password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	now := s.clock.Now()
	session := &domain.AuthSession{
		Token:     ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("org_id", user.OrgID.String()),
	)
	return &user, session, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&domain.AuthSession{}).Error
}

func (s *service) UserForToken(ctx context.Context, token string) (*domain.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrSessionExpired
	}

	var session domain.AuthSession
	err := s.db.WithContext(ctx).Where("token = ?", token).Limit(1).Find(&session).Error
	if err != nil {
		return nil, err
	}
	if session.Token == "" || s.clock.Now().After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	var user domain.User
	err = s.db.WithContext(ctx).Where("id = ?", session.UserID).Limit(1).Find(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, domain.ErrSessionExpired
	}
	return &user, nil
}

func (s *service) RoleForUser(ctx context.Context, orgID, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	err := s.db.WithContext(ctx).Raw(
		`SELECT role FROM users WHERE org_id = ? AND id = ? LIMIT 1`,
		orgID,
		userID,
	).Scan(&row).Error
	if err != nil {
		return "", err
	}
	return row.Role, nil
}
