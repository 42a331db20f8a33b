package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/service"
)

func TestSubjectsWithVerifiedDocumentsSearchAndSort(t *testing.T) {
	t.Parallel()

	subjects := []domain.Subject{
		{Name: "Zara", Email: "zara@example.com", Documents: []domain.Document{{Status: domain.DocumentStatusVerified}}},
		{Name: "Amit", Email: "amit@example.com", Documents: []domain.Document{{Status: domain.DocumentStatusVerified}}},
		{Name: "NoDocs", Email: "nodocs@example.com"},
	}

	all := service.SubjectsWithVerifiedDocuments(subjects, "")
	require.Len(t, all, 2)
	require.Equal(t, "Amit", all[0].Name, "output is name-sorted")

	byEmail := service.SubjectsWithVerifiedDocuments(subjects, "ZARA@")
	require.Len(t, byEmail, 1)
	require.Equal(t, "Zara", byEmail[0].Name)

	none := service.SubjectsWithVerifiedDocuments(subjects, "nobody")
	require.Empty(t, none)
}

func TestSubjectsByStatusPriorityRanks(t *testing.T) {
	t.Parallel()

	subjects := []domain.Subject{
		{ID: "a", KYCStatus: domain.KYCStatusRejected},
		{ID: "b", KYCStatus: domain.KYCStatusNotStarted},
		{ID: "c", KYCStatus: domain.KYCStatusApproved},
		{ID: "d", KYCStatus: domain.KYCStatusPendingApproval},
		{ID: "e", KYCStatus: domain.KYCStatusPending},
		{ID: "f", KYCStatus: domain.KYCStatusRequested},
	}

	ordered := service.SubjectsByStatusPriority(subjects, "")
	ids := make([]string, 0, len(ordered))
	for _, subject := range ordered {
		ids = append(ids, subject.ID)
	}
	// pending-like retain relative order, then success, then missing, then rest
	require.Equal(t, []string{"d", "e", "f", "c", "b", "a"}, ids)
}
