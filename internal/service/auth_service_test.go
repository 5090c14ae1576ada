package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/config"
	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/repository/memory"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Accounts) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", 4)
	require.NoError(t, err)

	active := memory.NewAccount("a1", domain.RoleL1, "")
	active.PasswordHash = hash
	inactive := memory.NewAccount("a2", domain.RoleL1, "")
	inactive.PasswordHash = hash
	inactive.Status = domain.AccountStatusInactive

	accounts := memory.NewAccounts(active, inactive)
	svc := NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5}, accounts, zaptest.NewLogger(t))
	return svc, accounts
}

func TestLogin(t *testing.T) {
	svc, accounts := newAuthService(t)
	ctx := context.Background()

	acc, token, exp, err := svc.Login(ctx, " a1@example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "a1", acc.ID)
	assert.False(t, exp.IsZero())

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.Subject)

	stored, err := accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginRejections(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, _, err := svc.Login(ctx, "a1@example.com", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, _, _, err = svc.Login(ctx, "a2@example.com", "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
