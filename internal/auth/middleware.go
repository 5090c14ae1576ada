package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/field-insights/internal/domain"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal is the authenticated account attached to a request.
type Principal struct {
	Account *domain.Account
	Caller  domain.Caller
}

// AccountLoader loads the account named by a token.
type AccountLoader interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts AccountLoader
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, accounts AccountLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes. A token whose role
// claim does not parse is Forbidden. The stored role wins over the claim so
// hierarchy changes apply without waiting for the token to expire.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}
	if _, err := domain.ParseRoleLevel(claims.Role); err != nil {
		return apperrors.NewForbidden("invalid role in token")
	}

	account, err := m.accounts.GetByID(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthenticated("account not found")
		}
		return apperrors.MapError(err)
	}
	if account.Status != domain.AccountStatusActive {
		return apperrors.NewForbidden("account is not active")
	}

	c.Locals(principalKey, &Principal{
		Account: account,
		Caller:  domain.Caller{AccountID: account.ID, Role: account.Role},
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// CallerFromContext returns the caller identity or an Unauthenticated error.
func CallerFromContext(c *fiber.Ctx) (domain.Caller, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Caller.AccountID == "" {
		return domain.Caller{}, apperrors.NewUnauthenticated("authentication required")
	}
	return principal.Caller, nil
}
