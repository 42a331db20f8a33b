package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/platform"
	"github.com/spec-kit/placement-admin/internal/service"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

type fakePlatform struct {
	subjects      []domain.Subject
	docSubjects   []domain.Subject
	redirectURL   string
	initiateErr   error
	decideResult  *platform.DecisionResult
	decideErr     error
	initiateCalls int
	decideCalls   int
}

var _ platform.API = (*fakePlatform)(nil)

func (f *fakePlatform) ListSubjects(context.Context) ([]domain.Subject, error) {
	return f.subjects, nil
}

func (f *fakePlatform) ListSubjectDocuments(context.Context) ([]domain.Subject, error) {
	return f.docSubjects, nil
}

func (f *fakePlatform) InitiateVerification(context.Context, platform.InitiateRequest) (string, error) {
	f.initiateCalls++
	return f.redirectURL, f.initiateErr
}

func (f *fakePlatform) DecideVerification(context.Context, platform.DecideRequest) (*platform.DecisionResult, error) {
	f.decideCalls++
	return f.decideResult, f.decideErr
}

func verificationActor() *domain.Operator {
	return &domain.Operator{
		ID:          "actor-1",
		Status:      domain.OperatorStatusActive,
		Permissions: []string{"User Management"},
	}
}

func newVerificationFixture(backend *fakePlatform) *service.VerificationService {
	return service.NewVerificationService(service.VerificationDependencies{Platform: backend})
}

func TestInitiateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		identifier     string
		identifierType string
	}{
		{"empty identifier", "", "email"},
		{"unknown identifier type", "student@example.com", "aadhaar"},
		{"empty identifier type", "student@example.com", ""},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			backend := &fakePlatform{redirectURL: "https://locker.example/start"}
			svc := newVerificationFixture(backend)

			_, err := svc.Initiate(context.Background(), verificationActor(), test.identifier, test.identifierType, "")
			require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
			require.Zero(t, backend.initiateCalls, "validation failures must not reach the network")
		})
	}
}

func TestInitiateReturnsRedirect(t *testing.T) {
	t.Parallel()

	backend := &fakePlatform{redirectURL: "https://locker.example/start?rid=1"}
	svc := newVerificationFixture(backend)

	url, err := svc.Initiate(context.Background(), verificationActor(), "student@example.com", "email", "placement-kyc")
	require.NoError(t, err)
	require.Equal(t, "https://locker.example/start?rid=1", url)
	require.Equal(t, 1, backend.initiateCalls)
}

func TestInitiateAlreadyInProgressSurfaces(t *testing.T) {
	t.Parallel()

	backend := &fakePlatform{initiateErr: apperrors.NewVerificationInProgress("verification already started")}
	svc := newVerificationFixture(backend)

	_, err := svc.Initiate(context.Background(), verificationActor(), "9876543210", "phone", "")
	require.Equal(t, "VERIFICATION_IN_PROGRESS", apperrors.ToDomainError(err).Code)
}

func TestInitiateRequiresCapability(t *testing.T) {
	t.Parallel()

	backend := &fakePlatform{}
	svc := newVerificationFixture(backend)
	actor := &domain.Operator{ID: "actor-2", Permissions: []string{"Dashboard"}}

	_, err := svc.Initiate(context.Background(), actor, "student@example.com", "email", "")
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	require.Zero(t, backend.initiateCalls)
}

func TestDecideReasonRules(t *testing.T) {
	t.Parallel()

	result := &platform.DecisionResult{
		SubjectID: "stu-1",
		KYCStatus: domain.KYCStatusApproved,
		KYCData:   &domain.KYCData{VerificationID: "ver-1"},
	}

	t.Run("rejection without reason blocked locally", func(t *testing.T) {
		t.Parallel()

		backend := &fakePlatform{decideResult: result}
		svc := newVerificationFixture(backend)

		_, err := svc.Decide(context.Background(), verificationActor(), "ver-1", service.DecisionRejected, "")
		require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		require.Zero(t, backend.decideCalls)
	})

	t.Run("approval requires no reason", func(t *testing.T) {
		t.Parallel()

		backend := &fakePlatform{decideResult: result}
		svc := newVerificationFixture(backend)

		decided, err := svc.Decide(context.Background(), verificationActor(), "ver-1", service.DecisionApproved, "")
		require.NoError(t, err)
		require.Equal(t, domain.KYCStatusApproved, decided.KYCStatus)
		require.Equal(t, 1, backend.decideCalls)
	})

	t.Run("unknown decision rejected", func(t *testing.T) {
		t.Parallel()

		backend := &fakePlatform{decideResult: result}
		svc := newVerificationFixture(backend)

		_, err := svc.Decide(context.Background(), verificationActor(), "ver-1", "escalated", "")
		require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		require.Zero(t, backend.decideCalls)
	})
}

func TestDecideAlreadyDecidedIsNormalError(t *testing.T) {
	t.Parallel()

	backend := &fakePlatform{decideErr: apperrors.NewConflict("verification already decided", nil)}
	svc := newVerificationFixture(backend)

	_, err := svc.Decide(context.Background(), verificationActor(), "ver-1", service.DecisionApproved, "")
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestListSubjectsOrdersByStatusPriority(t *testing.T) {
	t.Parallel()

	backend := &fakePlatform{subjects: []domain.Subject{
		{ID: "s1", Name: "Verified", KYCStatus: domain.KYCStatusVerified},
		{ID: "s2", Name: "Pending", KYCStatus: domain.KYCStatusPending},
		{ID: "s3", Name: "Missing", KYCStatus: domain.KYCStatusMissing},
		{ID: "s4", Name: "Rejected", KYCStatus: domain.KYCStatusRejected},
	}}
	svc := newVerificationFixture(backend)

	subjects, err := svc.ListSubjects(context.Background(), verificationActor(), "")
	require.NoError(t, err)

	ids := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		ids = append(ids, subject.ID)
	}
	require.Equal(t, []string{"s2", "s1", "s3", "s4"}, ids)
}

func TestListDocumentSubjectsFiltersVerified(t *testing.T) {
	t.Parallel()

	backend := &fakePlatform{docSubjects: []domain.Subject{
		{
			ID: "s1", Name: "Asha", Email: "asha@example.com",
			Documents: []domain.Document{
				{Type: "PAN Card", Status: domain.DocumentStatusVerified},
				{Type: "10th Marksheet", Status: domain.DocumentStatusMissing},
			},
		},
		{
			ID: "s2", Name: "Vikram", Email: "vikram@example.com",
			Documents: []domain.Document{
				{Type: "Aadhaar Card", Status: domain.DocumentStatusMissing},
				{Type: "12th Marksheet", Status: domain.DocumentStatusPending},
			},
		},
	}}
	svc := newVerificationFixture(backend)

	subjects, err := svc.ListDocumentSubjects(context.Background(), verificationActor(), "")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Equal(t, "s1", subjects[0].ID)
}
