package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-insights/internal/domain"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// RequireRole admits callers at min or above.
func RequireRole(min domain.RoleLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := CallerFromContext(c)
		if err != nil {
			return err
		}
		if !caller.Role.AtLeast(min) {
			return apperrors.NewForbidden(fmt.Sprintf("requires %s or above", min))
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := CallerFromContext(c); err != nil {
			return err
		}
		return c.Next()
	}
}
