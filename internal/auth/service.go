package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/pkg/auth"
	"github.com/medlinkvn/dms-backend/pkg/config"
	"github.com/medlinkvn/dms-backend/pkg/db/models"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
	"github.com/medlinkvn/dms-backend/pkg/security"
)

// Service authenticates users and mints access tokens.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type userLoader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// LoginResult carries the token plus the profile the mobile app renders.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	UserID      uuid.UUID      `json:"user_id"`
	FullName    string         `json:"full_name"`
	Role        enums.UserRole `json:"role"`
	HubCode     string         `json:"hub_code"`
}

type service struct {
	repo userLoader
	cfg  config.JWTConfig
	now  func() time.Time
}

// NewService wires the auth service.
func NewService(repo userLoader, cfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, cfg: cfg, now: time.Now}, nil
}

// Login verifies the credentials and returns a signed access token. Login
// failures are reported uniformly so the response does not reveal whether
// the account exists.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			return nil, invalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, invalid
	}
	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalid
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.cfg, now, auth.AccessTokenPayload{
		UserID:  user.ID,
		Role:    user.Role,
		HubCode: user.HubCode,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   now.Add(s.cfg.TokenTTL()),
		UserID:      user.ID,
		FullName:    user.FullName,
		Role:        user.Role,
		HubCode:     user.HubCode,
	}, nil
}
