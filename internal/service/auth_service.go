package service

import (
	"context"
	"time"

	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/repository"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// AuthService coordinates operator login and password changes.
type AuthService struct {
	operators  repository.OperatorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, operators repository.OperatorRepository) *AuthService {
	return &AuthService{
		operators:  operators,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates an operator. Only active accounts may log in; pending
// and inactive operators are turned away with the same generic message so the
// response does not leak account state.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Operator, string, time.Time, error) {
	operator, err := s.operators.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if operator.Status != domain.OperatorStatusActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(operator)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return operator, token, exp, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(ctx context.Context, operatorID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(operator.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("current password incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.operators.UpdatePassword(ctx, operatorID, hash); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
