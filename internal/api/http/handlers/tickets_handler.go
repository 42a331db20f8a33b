package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-admin/internal/api/dto"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/service"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// TicketsHandler exposes document-review tickets.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets}
}

// Create handles POST /admin/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	ticket, err := h.tickets.Create(c.Context(), principal.Operator, service.TicketCreateInput{
		SubjectID:    req.SubjectID,
		SubjectName:  req.SubjectName,
		DocumentType: req.DocumentType,
		Description:  req.Description,
		FileKey:      req.FileKey,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTicketResponse(ticket),
	})
}

// List handles GET /admin/tickets?status=.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var status *domain.DocumentTicketStatus
	if raw := c.Query("status"); raw != "" {
		parsed := domain.DocumentTicketStatus(raw)
		switch parsed {
		case domain.DocumentTicketStatusPending, domain.DocumentTicketStatusInReview, domain.DocumentTicketStatusResolved:
			status = &parsed
		default:
			return apperrors.NewValidationError("unknown ticket status", map[string]any{"status": raw})
		}
	}

	tickets, err := h.tickets.List(c.Context(), principal.Operator, status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewTicketResponses(tickets),
	})
}

// Resolve handles POST /admin/tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	ticket, err := h.tickets.Resolve(c.Context(), principal.Operator, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewTicketResponse(ticket),
	})
}
