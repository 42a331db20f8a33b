package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/api/dto"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/authz"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// NavigationHandler exposes the gate-filtered panel navigation.
type NavigationHandler struct{}

// NewNavigationHandler constructs handler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Views handles GET /admin/views. Views come back in catalog order, already
// filtered to what the operator may enter.
func (h *NavigationHandler) Views(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": dto.NavigationResponse{
			Views: authz.AvailableViews(principal.Permissions),
		},
	})
}

// Resolve handles GET /admin/views/resolve?view=. The response is always a
// view the operator can land on, never an error for a denied view.
func (h *NavigationHandler) Resolve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	requested := authz.View(c.Query("view"))
	return c.JSON(fiber.Map{
		"data": dto.ResolveViewResponse{
			View: authz.SafeNavigate(requested, principal.Permissions),
		},
	})
}
