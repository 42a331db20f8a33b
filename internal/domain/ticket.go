package domain

import "time"

// DocumentTicketStatus enumerates manual-review ticket states.
type DocumentTicketStatus string

const (
	DocumentTicketStatusPending  DocumentTicketStatus = "pending"
	DocumentTicketStatusInReview DocumentTicketStatus = "in_review"
	DocumentTicketStatusResolved DocumentTicketStatus = "resolved"
)

// DocumentTicket is a manual-review request raised against a subject when
// automated document verification does not cover a case.
type DocumentTicket struct {
	ID           string
	SubjectID    string
	SubjectName  string
	DocumentType string
	Description  string
	FileKey      *string
	Status       DocumentTicketStatus
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
