package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-admin/internal/domain"
)

func TestReplaceByVerificationID(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	subjects := []domain.Subject{
		{ID: "s1", KYCStatus: domain.KYCStatusPending, KYCData: &domain.KYCData{VerificationID: "ver-1"}},
		{ID: "s2", KYCStatus: domain.KYCStatusPending, KYCData: &domain.KYCData{VerificationID: "ver-2"}},
		{ID: "s3", KYCStatus: domain.KYCStatusMissing},
	}

	updated := ReplaceByVerificationID(subjects, "ver-1", domain.KYCStatusApproved,
		&domain.KYCData{VerificationID: "ver-1", LastUpdated: &now})

	require.Equal(t, domain.KYCStatusApproved, updated[0].KYCStatus)
	require.Equal(t, &now, updated[0].KYCData.LastUpdated)
	require.Equal(t, domain.KYCStatusPending, updated[1].KYCStatus, "other attempts stay untouched")
	require.Equal(t, domain.KYCStatusMissing, updated[2].KYCStatus, "subjects without an attempt stay untouched")
}

func TestReplaceByVerificationIDKeepsDataWhenAbsent(t *testing.T) {
	t.Parallel()

	subjects := []domain.Subject{
		{ID: "s1", KYCStatus: domain.KYCStatusPending, KYCData: &domain.KYCData{VerificationID: "ver-1"}},
	}

	updated := ReplaceByVerificationID(subjects, "ver-1", domain.KYCStatusRejected, nil)
	require.Equal(t, domain.KYCStatusRejected, updated[0].KYCStatus)
	require.Equal(t, "ver-1", updated[0].KYCData.VerificationID)
}

func TestReplaceByVerificationIDUnknownAttempt(t *testing.T) {
	t.Parallel()

	subjects := []domain.Subject{
		{ID: "s1", KYCStatus: domain.KYCStatusPending, KYCData: &domain.KYCData{VerificationID: "ver-1"}},
	}

	updated := ReplaceByVerificationID(subjects, "ver-unknown", domain.KYCStatusApproved, nil)
	require.Equal(t, domain.KYCStatusPending, updated[0].KYCStatus)
}

func TestDecodeSubjectsRejectsCorruptPayload(t *testing.T) {
	t.Parallel()

	_, err := decodeSubjects([]byte(`{"not":"a list"`))
	require.Error(t, err)

	subjects, err := decodeSubjects([]byte(`[{"id":"s1","kyc_status":"pending"}]`))
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, "s1", subjects[0].ID)
}
