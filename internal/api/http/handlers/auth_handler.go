package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/field-insights/internal/api/dto"
	"github.com/spec-kit/field-insights/internal/service"
	apperrors "github.com/spec-kit/field-insights/pkg/util/errorutil"
)

// AuthHandler exposes login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), req.ContactID, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"data": dto.LoginResponse{
			AccessToken: token,
			ExpiresAt:   exp,
			Account:     accountResponse(account),
		},
	})
}
