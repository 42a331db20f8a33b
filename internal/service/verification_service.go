package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-admin/internal/authz"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/events"
	"github.com/spec-kit/placement-admin/internal/platform"
	"github.com/spec-kit/placement-admin/internal/store"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// Decision values accepted by Decide.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// VerificationService coordinates the KYC lifecycle against the platform
// backend. Subject state is authoritative upstream; the local mirror is only
// updated from successful responses.
type VerificationService struct {
	platform   platform.API
	mirror     *store.SubjectMirror
	guard      *store.InFlightGuard
	dispatcher events.Dispatcher
	logger     *zap.Logger

	mu        sync.Mutex
	perTarget map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// VerificationDependencies bundles requirements for the verification service.
type VerificationDependencies struct {
	Platform   platform.API
	Mirror     *store.SubjectMirror
	Guard      *store.InFlightGuard
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewVerificationService constructs the service.
func NewVerificationService(deps VerificationDependencies) *VerificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{
		platform:   deps.Platform,
		mirror:     deps.Mirror,
		guard:      deps.Guard,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		perTarget:  make(map[string]*lockEntry),
	}
}

// lockTarget serializes operations racing on the same verification id. The
// returned release drops the entry once no caller holds or waits on it, so
// the lock table never outlives the verifications passing through it.
func (s *VerificationService) lockTarget(id string) func() {
	s.mu.Lock()
	entry, ok := s.perTarget[id]
	if !ok {
		entry = &lockEntry{}
		s.perTarget[id] = entry
	}
	entry.refs++
	s.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		s.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(s.perTarget, id)
		}
		s.mu.Unlock()
	}
}

// ListSubjects returns all subjects ordered so work-requiring statuses
// surface first. Reads come from the mirror when fresh, upstream otherwise.
func (s *VerificationService) ListSubjects(ctx context.Context, actor *domain.Operator, search string) ([]domain.Subject, error) {
	if err := requireCapability(actor, authz.CapabilityUserManagement); err != nil {
		return nil, err
	}
	subjects, ok := s.mirror.Get(ctx)
	if !ok {
		fetched, err := s.platform.ListSubjects(ctx)
		if err != nil {
			return nil, err
		}
		s.mirror.ReplaceAll(ctx, fetched)
		subjects = fetched
	}
	return SubjectsByStatusPriority(subjects, search), nil
}

// ListDocumentSubjects returns subjects holding at least one verified
// document, with their document collections.
func (s *VerificationService) ListDocumentSubjects(ctx context.Context, actor *domain.Operator, search string) ([]domain.Subject, error) {
	if err := requireCapability(actor, authz.CapabilityUserManagement); err != nil {
		return nil, err
	}
	subjects, err := s.platform.ListSubjectDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return SubjectsWithVerifiedDocuments(subjects, search), nil
}

func validateInitiation(identifier, identifierType string) error {
	if identifier == "" {
		return apperrors.NewValidationError("identifier required", nil)
	}
	if identifierType != "email" && identifierType != "phone" {
		return apperrors.NewValidationError("identifier type must be email or phone",
			map[string]any{"identifier_type": identifierType})
	}
	return nil
}

// Initiate starts a locker handoff for a subject. Validation failures never
// reach the network. The caller performs a full navigation to the returned
// URL; no local state is meaningful until the provider redirects back.
func (s *VerificationService) Initiate(ctx context.Context, actor *domain.Operator, identifier, identifierType, template string) (string, error) {
	if err := requireCapability(actor, authz.CapabilityUserManagement); err != nil {
		return "", err
	}
	if err := validateInitiation(identifier, identifierType); err != nil {
		return "", err
	}

	if !s.guard.Acquire(ctx, "initiate", identifier) {
		return "", apperrors.NewConflict("initiation already in flight for this identifier", nil)
	}
	defer s.guard.Release(ctx, "initiate", identifier)

	return s.platform.InitiateVerification(ctx, platform.InitiateRequest{
		Identifier:     identifier,
		IdentifierType: identifierType,
		Template:       template,
	})
}

// Reinitiate supersedes a prior attempt. The console allows this regardless
// of current subject status; when the subject is known and not rejected the
// call is logged for audit.
func (s *VerificationService) Reinitiate(ctx context.Context, actor *domain.Operator, identifier, identifierType string) (string, error) {
	if err := requireCapability(actor, authz.CapabilityUserManagement); err != nil {
		return "", err
	}
	if err := validateInitiation(identifier, identifierType); err != nil {
		return "", err
	}

	if subjects, ok := s.mirror.Get(ctx); ok {
		for _, subject := range nonRejectedMatches(subjects, identifier, identifierType) {
			s.logger.Warn("re-initiation on non-rejected subject",
				zap.String("subject_id", subject.ID),
				zap.String("kyc_status", string(subject.KYCStatus)))
		}
	}

	if !s.guard.Acquire(ctx, "reinitiate", identifier) {
		return "", apperrors.NewConflict("initiation already in flight for this identifier", nil)
	}
	defer s.guard.Release(ctx, "reinitiate", identifier)

	return s.platform.InitiateVerification(ctx, platform.InitiateRequest{
		Identifier:     identifier,
		IdentifierType: identifierType,
	})
}

// Decide applies an approve/reject ruling. A rejection without a reason is
// blocked before any network call. The mirror is updated only from the
// server's authoritative response, keyed by verification id.
func (s *VerificationService) Decide(ctx context.Context, actor *domain.Operator, verificationID, decision, reason string) (*platform.DecisionResult, error) {
	if err := requireCapability(actor, authz.CapabilityUserManagement); err != nil {
		return nil, err
	}
	if verificationID == "" {
		return nil, apperrors.NewValidationError("verification id required", nil)
	}
	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, apperrors.NewValidationError("decision must be approved or rejected",
			map[string]any{"decision": decision})
	}
	if decision == DecisionRejected && len(reason) == 0 {
		return nil, apperrors.NewValidationError("rejection requires a reason", nil)
	}

	release := s.lockTarget(verificationID)
	defer release()

	if !s.guard.Acquire(ctx, "decide", verificationID) {
		return nil, apperrors.NewConflict("decision already in flight for this verification", nil)
	}
	defer s.guard.Release(ctx, "decide", verificationID)

	result, err := s.platform.DecideVerification(ctx, platform.DecideRequest{
		VerificationID: verificationID,
		Decision:       decision,
		Reason:         reason,
	})
	if err != nil {
		return nil, err
	}

	s.mirror.ApplyDecision(ctx, verificationID, result.KYCStatus, result.KYCData)
	s.publish(ctx, events.Event{
		Type:     events.EventVerificationDecided,
		TargetID: result.SubjectID,
		ActorID:  actor.ID,
		Payload: events.VerificationDecidedPayload{
			VerificationID: verificationID,
			Decision:       decision,
			KYCStatus:      result.KYCStatus,
		},
	})
	return result, nil
}

func (s *VerificationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
