package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/field-insights/internal/domain"
	"github.com/spec-kit/field-insights/internal/repository/memory"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

func kindStatus(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.KindForbidden:
		status = http.StatusForbidden
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return c.SendStatus(status)
}

func newTestApp(t *testing.T, tm *TokenManager, min domain.RoleLevel) *fiber.App {
	t.Helper()
	inactive := memory.NewAccount("gone", domain.RoleL1, "")
	inactive.Status = domain.AccountStatusInactive
	accounts := memory.NewAccounts(
		memory.NewAccount("r1", domain.RoleL2, ""),
		memory.NewAccount("o1", domain.RoleL0, "r1"),
		inactive,
	)

	app := fiber.New(fiber.Config{ErrorHandler: kindStatus})
	mw := NewAuthMiddleware(tm, accounts)
	app.Get("/me", mw.Handle, RequireRole(min), func(c *fiber.Ctx) error {
		caller, err := CallerFromContext(c)
		if err != nil {
			return err
		}
		return c.SendString(caller.AccountID + ":" + caller.Role.String())
	})
	return app
}

func call(t *testing.T, app *fiber.App, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 10)
	app := newTestApp(t, tm, domain.RoleL1)

	manager, _, err := tm.GenerateToken("r1", domain.RoleL2)
	require.NoError(t, err)
	operative, _, err := tm.GenerateToken("o1", domain.RoleL0)
	require.NoError(t, err)
	unknown, _, err := tm.GenerateToken("nobody", domain.RoleL2)
	require.NoError(t, err)
	inactive, _, err := tm.GenerateToken("gone", domain.RoleL1)
	require.NoError(t, err)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             "manager",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "r1"},
	})
	badRoleToken, err := badRole.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "unknown account", header: "Bearer " + unknown, want: http.StatusUnauthorized},
		{name: "unparseable role", header: "Bearer " + badRoleToken, want: http.StatusForbidden},
		{name: "inactive account", header: "Bearer " + inactive, want: http.StatusForbidden},
		{name: "role too low", header: "Bearer " + operative, want: http.StatusForbidden},
		{name: "allowed", header: "Bearer " + manager, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, app, tt.header))
		})
	}
}
