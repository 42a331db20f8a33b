package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/domain"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.PlatformConfig{
		BaseURL:        baseURL,
		APIToken:       "test-token",
		TimeoutSeconds: 2,
		RetryMax:       0,
	})
}

func TestInitiateVerification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   func(w http.ResponseWriter, r *http.Request)
		wantURL   string
		wantCode  string
		wantError bool
	}{
		{
			name: "successful initiation returns redirect url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-token" {
					t.Error("missing bearer token")
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(`{"data":{"redirect_url":"https://locker.example/start?rid=abc"}}`))
			},
			wantURL: "https://locker.example/start?rid=abc",
		},
		{
			name: "status 400 maps to verification in progress",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":"ALREADY_STARTED","message":"verification already started"}}`))
			},
			wantCode:  "VERIFICATION_IN_PROGRESS",
			wantError: true,
		},
		{
			name: "status 500 surfaces server message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"message":"locker provider unavailable"}`))
			},
			wantCode:  "UPSTREAM_ERROR",
			wantError: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(test.handler))
			defer server.Close()

			client := newTestClient(server.URL)
			url, err := client.InitiateVerification(context.Background(), InitiateRequest{
				Identifier:     "student@example.com",
				IdentifierType: "email",
			})

			if test.wantError {
				require.Error(t, err)
				domainErr := apperrors.ToDomainError(err)
				require.Equal(t, test.wantCode, domainErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.wantURL, url)
		})
	}
}

func TestInitiateVerificationErrorMessageVerbatim(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"verification already completed for this student"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).InitiateVerification(context.Background(), InitiateRequest{
		Identifier:     "9876543210",
		IdentifierType: "phone",
	})
	require.Error(t, err)
	require.Equal(t, "verification already completed for this student", apperrors.ToDomainError(err).Message)
}

func TestDecideVerification(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"subject_id":"stu-1","kyc_status":"approved","kyc_data":{"verification_id":"ver-9"}}}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).DecideVerification(context.Background(), DecideRequest{
		VerificationID: "ver-9",
		Decision:       "approved",
	})
	require.NoError(t, err)
	require.Equal(t, domain.KYCStatusApproved, result.KYCStatus)
	require.Equal(t, "ver-9", result.KYCData.VerificationID)
}

func TestDecideVerificationAlreadyDecided(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"message":"verification already decided"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).DecideVerification(context.Background(), DecideRequest{
		VerificationID: "ver-9",
		Decision:       "rejected",
		Reason:         "document mismatch",
	})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "CONFLICT", domainErr.Code)
	require.Equal(t, "verification already decided", domainErr.Message)
}

func TestListSubjectsTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	}))
	defer server.Close()

	client := NewClient(config.PlatformConfig{BaseURL: server.URL, TimeoutSeconds: 1, RetryMax: 0})
	_, err := client.ListSubjects(context.Background())
	require.Error(t, err)
	require.Equal(t, "UPSTREAM_TIMEOUT", apperrors.ToDomainError(err).Code)
}

func TestListSubjectDocumentsDecodesVariants(t *testing.T) {
	t.Parallel()

	const body = `{"data":[{
		"id":"stu-1","name":"Asha Rao","email":"asha@example.com","kyc_status":"verified",
		"documents":[
			{"type":"PAN Card","status":"verified","details":{"kind":"identity","identity":{"id_number":"ABCDE1234F","holder_name":"Asha Rao","gender":"F"}}},
			{"type":"10th Marksheet","status":"pending","details":{"kind":"academic","academic":{"board":"CBSE","subjects":[{"name":"Mathematics","marks":"95","grade":"A1"}]}}}
		]}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	subjects, err := newTestClient(server.URL).ListSubjectDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Len(t, subjects[0].Documents, 2)

	identity := subjects[0].Documents[0].Details
	require.Equal(t, domain.DetailsKindIdentity, identity.Kind)
	require.NotNil(t, identity.Identity)
	require.Equal(t, "ABCDE1234F", identity.Identity.IDNumber)

	academic := subjects[0].Documents[1].Details
	require.Equal(t, domain.DetailsKindAcademic, academic.Kind)
	require.NotNil(t, academic.Academic)
	require.Len(t, academic.Academic.Subjects, 1)
	require.Equal(t, "Mathematics", academic.Academic.Subjects[0].Name)
}
