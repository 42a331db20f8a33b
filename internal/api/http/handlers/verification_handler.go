package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/api/dto"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/service"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// VerificationHandler exposes subject verification endpoints backed by the
// upstream platform.
type VerificationHandler struct {
	verification *service.VerificationService
}

// NewVerificationHandler constructs handler.
func NewVerificationHandler(verification *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verification: verification}
}

// Subjects handles GET /admin/verification/subjects?search=.
func (h *VerificationHandler) Subjects(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	subjects, err := h.verification.ListSubjects(c.Context(), principal.Operator, c.Query("search"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": subjects,
	})
}

// Documents handles GET /admin/verification/documents?search=. Only subjects
// holding at least one verified document appear.
func (h *VerificationHandler) Documents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	subjects, err := h.verification.ListDocumentSubjects(c.Context(), principal.Operator, c.Query("search"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": subjects,
	})
}

// Initiate handles POST /admin/verification/initiate.
func (h *VerificationHandler) Initiate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.InitiateVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	redirectURL, err := h.verification.Initiate(c.Context(), principal.Operator, req.Identifier, req.IdentifierType, req.Template)
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.InitiateVerificationResponse{RedirectURL: redirectURL},
	})
}

// Reinitiate handles POST /admin/verification/reinitiate.
func (h *VerificationHandler) Reinitiate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.InitiateVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	redirectURL, err := h.verification.Reinitiate(c.Context(), principal.Operator, req.Identifier, req.IdentifierType)
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data": dto.InitiateVerificationResponse{RedirectURL: redirectURL},
	})
}

// Decide handles POST /admin/verification/decide.
func (h *VerificationHandler) Decide(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.DecideVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.verification.Decide(c.Context(), principal.Operator, req.VerificationID, req.Decision, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.DecisionResponse{
			SubjectID: result.SubjectID,
			KYCStatus: result.KYCStatus,
			KYCData:   result.KYCData,
		},
	})
}
