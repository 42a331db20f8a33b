package service

import (
	"sort"
	"strings"

	"github.com/spec-kit/placement-admin/internal/domain"
)

// matchesSearch filters case-insensitively against subject name or email.
func matchesSearch(subject domain.Subject, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(subject.Name), search) ||
		strings.Contains(strings.ToLower(subject.Email), search)
}

// SubjectsWithVerifiedDocuments keeps subjects holding at least one verified
// document, filtered by search text and sorted by name.
func SubjectsWithVerifiedDocuments(subjects []domain.Subject, search string) []domain.Subject {
	result := make([]domain.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if subject.HasVerifiedDocument() && matchesSearch(subject, search) {
			result = append(result, subject)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result
}

// nonRejectedMatches returns the subjects addressed by an initiation
// identifier whose verification is not currently rejected. The identifier is
// compared against the field its type names, never across fields.
func nonRejectedMatches(subjects []domain.Subject, identifier, identifierType string) []domain.Subject {
	var result []domain.Subject
	for _, subject := range subjects {
		contact := subject.Email
		if identifierType == "phone" {
			contact = subject.Phone
		}
		if contact != "" && contact == identifier && subject.KYCStatus != domain.KYCStatusRejected {
			result = append(result, subject)
		}
	}
	return result
}

// statusRank orders subjects so work-requiring statuses surface first.
func statusRank(status domain.KYCStatus) int {
	switch status {
	case domain.KYCStatusPending, domain.KYCStatusPendingApproval, domain.KYCStatusRequested:
		return 0
	case domain.KYCStatusVerified, domain.KYCStatusApproved:
		return 1
	case domain.KYCStatusMissing, domain.KYCStatusNotStarted:
		return 2
	default:
		return 3
	}
}

// SubjectsByStatusPriority filters by search text and orders pending-like
// subjects first, then verified/approved, then missing/not started, then the
// rest. Order within a rank is preserved.
func SubjectsByStatusPriority(subjects []domain.Subject, search string) []domain.Subject {
	result := make([]domain.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if matchesSearch(subject, search) {
			result = append(result, subject)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return statusRank(result[i].KYCStatus) < statusRank(result[j].KYCStatus)
	})
	return result
}
