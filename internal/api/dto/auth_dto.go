package dto

import (
	"time"

	"github.com/spec-kit/placement-admin/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the access token and the operator it belongs to.
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Operator    OperatorResponse `json:"operator"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// OperatorResponse describes an operator account without credentials.
type OperatorResponse struct {
	ID          string                `json:"id"`
	Username    string                `json:"username"`
	Email       string                `json:"email"`
	Role        domain.OperatorRole   `json:"role"`
	Status      domain.OperatorStatus `json:"status"`
	Permissions []string              `json:"permissions"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewOperatorResponse maps a domain operator.
func NewOperatorResponse(operator *domain.Operator) OperatorResponse {
	permissions := operator.Permissions
	if permissions == nil {
		permissions = []string{}
	}
	return OperatorResponse{
		ID:          operator.ID,
		Username:    operator.Username,
		Email:       operator.Email,
		Role:        operator.Role,
		Status:      operator.Status,
		Permissions: permissions,
		CreatedAt:   operator.CreatedAt,
		UpdatedAt:   operator.UpdatedAt,
	}
}

// NewOperatorResponses maps an operator slice.
func NewOperatorResponses(operators []domain.Operator) []OperatorResponse {
	responses := make([]OperatorResponse, 0, len(operators))
	for i := range operators {
		responses = append(responses, NewOperatorResponse(&operators[i]))
	}
	return responses
}
