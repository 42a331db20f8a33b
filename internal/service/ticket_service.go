package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/placement-admin/internal/authz"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/events"
	"github.com/spec-kit/placement-admin/internal/repository"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// TicketService manages manual document-review tickets. Tickets round-trip
// through the server; there is no client-only ticket state.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	SubjectID    string
	SubjectName  string
	DocumentType string
	Description  string
	FileKey      *string
}

// Create raises a manual-review ticket against a subject.
func (s *TicketService) Create(ctx context.Context, actor *domain.Operator, input TicketCreateInput) (*domain.DocumentTicket, error) {
	if err := requireCapability(actor, authz.CapabilitySupportPanel); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.SubjectID) == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if strings.TrimSpace(input.DocumentType) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("document type and description required", nil)
	}

	ticket := &domain.DocumentTicket{
		SubjectID:    input.SubjectID,
		SubjectName:  strings.TrimSpace(input.SubjectName),
		DocumentType: strings.TrimSpace(input.DocumentType),
		Description:  strings.TrimSpace(input.Description),
		FileKey:      input.FileKey,
		Status:       domain.DocumentTicketStatusPending,
		CreatedBy:    actor.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketCreated,
			TargetID:  ticket.ID,
			ActorID:   actor.ID,
			Timestamp: time.Now(),
			Payload: events.TicketCreatedPayload{
				SubjectID:    ticket.SubjectID,
				DocumentType: ticket.DocumentType,
			},
		})
	}
	return ticket, nil
}

// List returns tickets newest-first, optionally filtered by status.
func (s *TicketService) List(ctx context.Context, actor *domain.Operator, status *domain.DocumentTicketStatus) ([]domain.DocumentTicket, error) {
	if err := requireCapability(actor, authz.CapabilitySupportPanel); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Resolve closes a pending or in-review ticket.
func (s *TicketService) Resolve(ctx context.Context, actor *domain.Operator, ticketID string) (*domain.DocumentTicket, error) {
	if err := requireCapability(actor, authz.CapabilitySupportPanel); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.Status == domain.DocumentTicketStatusResolved {
		return nil, apperrors.NewConflict("ticket already resolved", map[string]any{"id": ticketID})
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticketID, domain.DocumentTicketStatusResolved)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updated, nil
}
