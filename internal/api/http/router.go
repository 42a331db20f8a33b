package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/api/http/handlers"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Navigation     *handlers.NavigationHandler
	Operators      *handlers.OperatorsHandler
	Verification   *handlers.VerificationHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)
	app.Post("/auth/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)

	admin.Get("/views", cfg.Navigation.Views)
	admin.Get("/views/resolve", cfg.Navigation.Resolve)

	operators := admin.Group("/operators", auth.RequireCapability(authz.CapabilityEmployeeManagement))
	operators.Get("/", cfg.Operators.List)
	operators.Get("/export", cfg.Operators.Export)
	operators.Post("/", cfg.Operators.Create)
	operators.Put("/:id/permissions", cfg.Operators.SetPermissions)
	operators.Post("/:id/status", cfg.Operators.StageStatusChange)
	operators.Post("/:id/remove", cfg.Operators.StageRemoval)

	admin.Post("/confirmations/:token", auth.RequireCapability(authz.CapabilityEmployeeManagement), cfg.Operators.Confirm)

	verification := admin.Group("/verification", auth.RequireCapability(authz.CapabilityUserManagement))
	verification.Get("/subjects", cfg.Verification.Subjects)
	verification.Get("/documents", cfg.Verification.Documents)
	verification.Post("/initiate", cfg.Verification.Initiate)
	verification.Post("/reinitiate", cfg.Verification.Reinitiate)
	verification.Post("/decide", cfg.Verification.Decide)

	tickets := admin.Group("/tickets", auth.RequireCapability(authz.CapabilitySupportPanel))
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Post("/:id/resolve", cfg.Tickets.Resolve)
}
