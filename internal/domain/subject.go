package domain

import "time"

// KYCStatus is owned by the verification backend; this service only echoes
// server responses, never computes it locally.
type KYCStatus string

const (
	KYCStatusNotStarted      KYCStatus = "not_started"
	KYCStatusMissing         KYCStatus = "missing"
	KYCStatusPending         KYCStatus = "pending"
	KYCStatusPendingApproval KYCStatus = "pending_approval"
	KYCStatusRequested       KYCStatus = "requested"
	KYCStatusVerified        KYCStatus = "verified"
	KYCStatusApproved        KYCStatus = "approved"
	KYCStatusRejected        KYCStatus = "rejected"
)

// KYCData is present once a verification has been initiated at least once.
// Exactly one verification attempt is meaningful at a time; re-initiation
// supersedes the previous VerificationID.
type KYCData struct {
	VerificationID string     `json:"verification_id"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

// Subject is a student whose identity and documents are under verification.
type Subject struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	KYCStatus KYCStatus  `json:"kyc_status"`
	KYCData   *KYCData   `json:"kyc_data,omitempty"`
	Documents []Document `json:"documents,omitempty"`
}

// HasVerifiedDocument reports whether at least one attached document is verified.
func (s Subject) HasVerifiedDocument() bool {
	for _, doc := range s.Documents {
		if doc.Status == DocumentStatusVerified {
			return true
		}
	}
	return false
}
