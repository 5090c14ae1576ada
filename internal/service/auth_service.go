package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/config"
	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/repository"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// AuthService authenticates hierarchy accounts.
type AuthService struct {
	accounts repository.AccountRepository
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts: accounts,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:   logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login verifies credentials by contact id and returns a signed token.
// Unknown accounts and wrong passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, contactID, password string) (*domain.Account, string, time.Time, error) {
	contactID = strings.TrimSpace(contactID)
	if contactID == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("contact id and password are required", nil)
	}

	account, err := s.accounts.GetByContactID(ctx, contactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}
	if account.Status != domain.AccountStatusActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account is not active")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := s.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		s.logger.Warn("failed to record last login", zap.String("account_id", account.ID), zap.Error(err))
	}
	return account, token, exp, nil
}
