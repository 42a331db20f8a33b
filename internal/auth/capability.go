package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/authz"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// RequireCapability guards a route with a catalog capability.
func RequireCapability(cap authz.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Permissions.Has(cap) {
			return apperrors.NewForbidden("missing capability: " + string(cap))
		}
		return c.Next()
	}
}

// RequireView guards a route with the capability gating a console view.
func RequireView(view authz.View) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !authz.CanEnter(view, principal.Permissions) {
			return apperrors.NewForbidden("view not permitted: " + string(view))
		}
		return c.Next()
	}
}
