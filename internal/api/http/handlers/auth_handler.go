package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/api/dto"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/service"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// AuthHandler exposes operator login and password endpoints.
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
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	operator, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			AccessToken: token,
			ExpiresAt:   exp,
			Operator:    dto.NewOperatorResponse(operator),
		},
	})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current and new password required", nil)
	}

	if err := h.auth.ChangePassword(c.Context(), principal.Operator.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"changed": true},
	})
}
