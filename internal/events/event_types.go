package events

import (
	"time"

	"github.com/spec-kit/placement-admin/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOperatorCreated            EventType = "operator_created"
	EventOperatorPermissionsChanged EventType = "operator_permissions_changed"
	EventOperatorStatusChanged      EventType = "operator_status_changed"
	EventOperatorRemoved            EventType = "operator_removed"
	EventVerificationDecided        EventType = "verification_decided"
	EventTicketCreated              EventType = "ticket_created"
)

// Event represents a domain event emitted by services. TargetID names the
// record the event is about (operator, subject or ticket id).
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TargetID  string      `json:"target_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OperatorCreatedPayload payload.
type OperatorCreatedPayload struct {
	Username string              `json:"username"`
	Role     domain.OperatorRole `json:"role"`
}

// OperatorPermissionsChangedPayload carries the canonicalized capability set.
// Components that need permission freshness subscribe here instead of
// listening for an untyped broadcast.
type OperatorPermissionsChangedPayload struct {
	Permissions []string `json:"permissions"`
}

// OperatorStatusChangedPayload payload.
type OperatorStatusChangedPayload struct {
	OldStatus domain.OperatorStatus `json:"old_status"`
	NewStatus domain.OperatorStatus `json:"new_status"`
}

// VerificationDecidedPayload payload.
type VerificationDecidedPayload struct {
	VerificationID string           `json:"verification_id"`
	Decision       string           `json:"decision"`
	KYCStatus      domain.KYCStatus `json:"kyc_status"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	SubjectID    string `json:"subject_id"`
	DocumentType string `json:"document_type"`
}
