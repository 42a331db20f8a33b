package dto

import (
	"github.com/spec-kit/placement-admin/internal/authz"
	"github.com/spec-kit/placement-admin/internal/domain"
)

// InitiateVerificationRequest starts a verification flow for a subject.
type InitiateVerificationRequest struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifier_type"`
	Template       string `json:"template,omitempty"`
}

// InitiateVerificationResponse carries the provider redirect URL.
type InitiateVerificationResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// DecideVerificationRequest records an approve/reject decision.
type DecideVerificationRequest struct {
	VerificationID string `json:"verification_id"`
	Decision       string `json:"decision"`
	Reason         string `json:"reason,omitempty"`
}

// DecisionResponse echoes the authoritative post-decision subject state.
type DecisionResponse struct {
	SubjectID string           `json:"subject_id"`
	KYCStatus domain.KYCStatus `json:"kyc_status"`
	KYCData   *domain.KYCData  `json:"kyc_data,omitempty"`
}

// NavigationResponse lists the views the operator may enter.
type NavigationResponse struct {
	Views []authz.View `json:"views"`
}

// ResolveViewResponse carries the view actually granted.
type ResolveViewResponse struct {
	View authz.View `json:"view"`
}
