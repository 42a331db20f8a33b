package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/domain"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// API is the slice of the placement platform backend this service consumes.
// Verification state is owned upstream; every response here is authoritative.
type API interface {
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
	ListSubjectDocuments(ctx context.Context) ([]domain.Subject, error)
	InitiateVerification(ctx context.Context, req InitiateRequest) (string, error)
	DecideVerification(ctx context.Context, req DecideRequest) (*DecisionResult, error)
}

// InitiateRequest starts (or restarts) a verification attempt. The redirect
// URL in the response hands the browser off to the external document locker.
type InitiateRequest struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifier_type"`
	Template       string `json:"template,omitempty"`
}

// DecideRequest applies an operator ruling on a pending verification.
type DecideRequest struct {
	VerificationID string `json:"verification_id"`
	Decision       string `json:"decision"`
	Reason         string `json:"reason,omitempty"`
}

// DecisionResult is the server-confirmed subject state after a decision.
type DecisionResult struct {
	SubjectID string           `json:"subject_id"`
	KYCStatus domain.KYCStatus `json:"kyc_status"`
	KYCData   *domain.KYCData  `json:"kyc_data,omitempty"`
}

// Client talks to the platform backend over authenticated REST.
type Client struct {
	client   *http.Client
	baseURL  string
	apiToken string
}

var _ API = (*Client)(nil)

// NewClient builds a client with bounded timeout; retries apply to transport
// errors only, never to responses the backend actually produced.
func NewClient(cfg config.PlatformConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = cfg.Timeout()
	retryClient.Logger = nil
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		return false, nil
	}

	return &Client{
		client:   retryClient.StandardClient(),
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e errorEnvelope) text() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

// ListSubjects fetches every subject with its KYC status.
func (c *Client) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	var out struct {
		Data []domain.Subject `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/students/kyc", nil, &out, "list subjects"); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListSubjectDocuments fetches subjects with their document collections.
func (c *Client) ListSubjectDocuments(ctx context.Context) ([]domain.Subject, error) {
	var out struct {
		Data []domain.Subject `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/students/documents", nil, &out, "list subject documents"); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// InitiateVerification asks the backend to start a locker handoff. A 400 from
// the backend means the verification was already started or completed; that is
// a recoverable condition, not a failure of this service.
func (c *Client) InitiateVerification(ctx context.Context, req InitiateRequest) (string, error) {
	var out struct {
		Data struct {
			RedirectURL string `json:"redirect_url"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/kyc/initiate", req, &out, "initiate verification"); err != nil {
		return "", err
	}
	return out.Data.RedirectURL, nil
}

// DecideVerification applies an approve/reject ruling upstream and returns the
// authoritative subject state.
func (c *Client) DecideVerification(ctx context.Context, req DecideRequest) (*DecisionResult, error) {
	var out struct {
		Data DecisionResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/kyc/decide", req, &out, "decide verification"); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, operation string) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("encode %s request: %w", operation, err))
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("build %s request: %w", operation, err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return apperrors.NewUpstreamTimeout(operation)
		}
		return apperrors.NewUpstreamError("", fmt.Errorf("%s: %w", operation, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewUpstreamError("", fmt.Errorf("read %s response: %w", operation, err))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.mapStatus(resp.StatusCode, raw, operation)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return apperrors.NewUpstreamError("", fmt.Errorf("decode %s response: %w", operation, err))
		}
	}
	return nil
}

func (c *Client) mapStatus(status int, body []byte, operation string) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)
	message := envelope.text()

	switch status {
	case http.StatusBadRequest:
		if operation == "initiate verification" {
			return apperrors.NewVerificationInProgress(message)
		}
		if message == "" {
			message = fmt.Sprintf("%s rejected by platform backend", operation)
		}
		return apperrors.NewConflict(message, nil)
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorized("platform backend rejected credentials")
	case http.StatusForbidden:
		if message == "" {
			message = "decision authority denied"
		}
		return apperrors.NewForbidden(message)
	case http.StatusNotFound:
		return apperrors.NewNotFound("verification record", nil)
	case http.StatusConflict:
		return apperrors.NewConflict(message, nil)
	case http.StatusGatewayTimeout:
		return apperrors.NewUpstreamTimeout(operation)
	default:
		if message == "" {
			message = fmt.Sprintf("platform backend returned status %d", status)
		}
		return apperrors.NewUpstreamError(message, nil)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
