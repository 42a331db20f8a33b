package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/api/dto"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/service"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// OperatorsHandler exposes the operator directory.
type OperatorsHandler struct {
	directory *service.DirectoryService
}

// NewOperatorsHandler constructs handler.
func NewOperatorsHandler(directory *service.DirectoryService) *OperatorsHandler {
	return &OperatorsHandler{directory: directory}
}

// List handles GET /admin/operators.
func (h *OperatorsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	operators, err := h.directory.List(c.Context(), principal.Operator)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewOperatorResponses(operators),
	})
}

// Create handles POST /admin/operators. New operators start pending with no
// capability grants.
func (h *OperatorsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	operator, err := h.directory.Create(c.Context(), principal.Operator, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewOperatorResponse(operator),
	})
}

// SetPermissions handles PUT /admin/operators/:id/permissions.
func (h *OperatorsHandler) SetPermissions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.SetPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	operator, err := h.directory.SetPermissions(c.Context(), principal.Operator, c.Params("id"), req.Permissions)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewOperatorResponse(operator),
	})
}

// StageStatusChange handles POST /admin/operators/:id/status. Nothing
// mutates until the staged token is confirmed.
func (h *OperatorsHandler) StageStatusChange(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.StageStatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	intent, err := h.directory.StageStatusChange(c.Context(), principal.Operator, c.Params("id"), req.Status)
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.NewStagedIntentResponse(intent),
	})
}

// StageRemoval handles POST /admin/operators/:id/remove.
func (h *OperatorsHandler) StageRemoval(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	intent, err := h.directory.StageRemoval(c.Context(), principal.Operator, c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.NewStagedIntentResponse(intent),
	})
}

// Confirm handles POST /admin/confirmations/:token. Tokens are single use.
func (h *OperatorsHandler) Confirm(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	operator, intent, err := h.directory.ConfirmStagedChange(c.Context(), principal.Operator, c.Params("token"))
	if err != nil {
		return err
	}

	response := dto.ConfirmationResponse{Kind: intent.Kind}
	if operator != nil {
		mapped := dto.NewOperatorResponse(operator)
		response.Operator = &mapped
	}

	return c.JSON(fiber.Map{
		"data": response,
	})
}

// Export handles GET /admin/operators/export and streams CSV.
func (h *OperatorsHandler) Export(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	csvData, err := h.directory.Export(c.Context(), principal.Operator)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="operators.csv"`)
	return c.SendString(csvData)
}
