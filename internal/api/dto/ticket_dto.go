package dto

import (
	"time"

	"github.com/spec-kit/placement-admin/internal/domain"
)

// CreateTicketRequest raises a manual document-review ticket.
type CreateTicketRequest struct {
	SubjectID    string  `json:"subject_id"`
	SubjectName  string  `json:"subject_name"`
	DocumentType string  `json:"document_type"`
	Description  string  `json:"description"`
	FileKey      *string `json:"file_key,omitempty"`
}

// TicketResponse describes a document ticket.
type TicketResponse struct {
	ID           string                      `json:"id"`
	SubjectID    string                      `json:"subject_id"`
	SubjectName  string                      `json:"subject_name"`
	DocumentType string                      `json:"document_type"`
	Description  string                      `json:"description"`
	FileKey      *string                     `json:"file_key,omitempty"`
	Status       domain.DocumentTicketStatus `json:"status"`
	CreatedBy    string                      `json:"created_by"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.DocumentTicket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		SubjectID:    ticket.SubjectID,
		SubjectName:  ticket.SubjectName,
		DocumentType: ticket.DocumentType,
		Description:  ticket.Description,
		FileKey:      ticket.FileKey,
		Status:       ticket.Status,
		CreatedBy:    ticket.CreatedBy,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a ticket slice.
func NewTicketResponses(tickets []domain.DocumentTicket) []TicketResponse {
	responses := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		responses = append(responses, NewTicketResponse(&tickets[i]))
	}
	return responses
}
