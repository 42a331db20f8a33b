package dto

import (
	"time"

	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/store"
)

// CreateOperatorRequest payload.
type CreateOperatorRequest struct {
	Username string              `json:"username"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
	Role     domain.OperatorRole `json:"role"`
}

// SetPermissionsRequest replaces an operator's capability grants.
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

// StageStatusChangeRequest stages an activation or deactivation.
type StageStatusChangeRequest struct {
	Status domain.OperatorStatus `json:"status"`
}

// StagedIntentResponse is returned when a destructive change is staged.
// The client must confirm with the token before anything mutates.
type StagedIntentResponse struct {
	Token        string                `json:"token"`
	Kind         store.IntentKind      `json:"kind"`
	OperatorID   string                `json:"operator_id"`
	TargetStatus domain.OperatorStatus `json:"target_status,omitempty"`
	ExpiresAt    time.Time             `json:"expires_at"`
}

// NewStagedIntentResponse maps a staged intent.
func NewStagedIntentResponse(intent *store.StagedIntent) StagedIntentResponse {
	return StagedIntentResponse{
		Token:        intent.Token,
		Kind:         intent.Kind,
		OperatorID:   intent.OperatorID,
		TargetStatus: intent.TargetStatus,
		ExpiresAt:    intent.ExpiresAt,
	}
}

// ConfirmationResponse reports the outcome of a confirmed intent. Operator
// is null when the confirmed intent was a removal.
type ConfirmationResponse struct {
	Kind     store.IntentKind  `json:"kind"`
	Operator *OperatorResponse `json:"operator"`
}
