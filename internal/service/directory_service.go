package service

import (
	"context"
	"encoding/csv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/authz"
	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/events"
	"github.com/spec-kit/placement-admin/internal/repository"
	"github.com/spec-kit/placement-admin/internal/store"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

// IntentStore persists staged intents until confirmation or expiry.
type IntentStore interface {
	TTL() time.Duration
	Put(ctx context.Context, intent *store.StagedIntent) error
	Take(ctx context.Context, token string) (*store.StagedIntent, error)
}

// DirectoryService manages administrative operator records. Destructive
// mutations (status change, removal) go through a stage/confirm gate: the
// record is untouched until the staged intent is explicitly confirmed.
type DirectoryService struct {
	operators  repository.OperatorRepository
	intents    IntentStore
	dispatcher events.Dispatcher
	bcryptCost int
}

// DirectoryDependencies bundles requirements for the directory service.
type DirectoryDependencies struct {
	OperatorRepo repository.OperatorRepository
	IntentStore  IntentStore
	Dispatcher   events.Dispatcher
}

// NewDirectoryService constructs the service.
func NewDirectoryService(cfg config.Config, deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		operators:  deps.OperatorRepo,
		intents:    deps.IntentStore,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

func requireCapability(actor *domain.Operator, cap authz.Capability) error {
	if actor == nil || !authz.NewPermissionSet(actor.Permissions).Has(cap) {
		return apperrors.NewForbidden("missing capability: " + string(cap))
	}
	return nil
}

// List returns the directory in canonical order: admins first, then
// onboarding order.
func (s *DirectoryService) List(ctx context.Context, actor *domain.Operator) ([]domain.Operator, error) {
	if err := requireCapability(actor, authz.CapabilityEmployeeManagement); err != nil {
		return nil, err
	}
	operators, err := s.operators.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	domain.SortOperators(operators)
	return operators, nil
}

// Create adds a new operator account in pending status.
func (s *DirectoryService) Create(ctx context.Context, actor *domain.Operator, username, email, password string, role domain.OperatorRole) (*domain.Operator, error) {
	if err := requireCapability(actor, authz.CapabilityEmployeeManagement); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("username, email and password required", nil)
	}
	if role != domain.OperatorRoleAdmin && role != domain.OperatorRoleEmployee {
		return nil, apperrors.NewValidationError("role must be admin or employee", map[string]any{"role": role})
	}

	if existing, err := s.operators.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}
	if existing, err := s.operators.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	operator := &domain.Operator{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       domain.OperatorStatusPending,
		Permissions:  []string{},
	}
	if err := s.operators.Create(ctx, operator); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username or email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventOperatorCreated,
		TargetID: operator.ID,
		ActorID:  actor.ID,
		Payload:  events.OperatorCreatedPayload{Username: operator.Username, Role: operator.Role},
	})
	return operator, nil
}

// SetPermissions replaces an operator's capability set. The set is
// canonicalized before persistence so the same logical set always serializes
// identically.
func (s *DirectoryService) SetPermissions(ctx context.Context, actor *domain.Operator, operatorID string, permissions []string) (*domain.Operator, error) {
	if err := requireCapability(actor, authz.CapabilityEmployeeManagement); err != nil {
		return nil, err
	}
	canonical := authz.Canonicalize(permissions)

	updated, err := s.operators.UpdatePermissions(ctx, operatorID, canonical)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("operator", map[string]any{"id": operatorID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventOperatorPermissionsChanged,
		TargetID: updated.ID,
		ActorID:  actor.ID,
		Payload:  events.OperatorPermissionsChangedPayload{Permissions: canonical},
	})
	return updated, nil
}

// StageStatusChange records an intent to toggle login eligibility. Nothing is
// applied until the returned confirmation token is spent.
func (s *DirectoryService) StageStatusChange(ctx context.Context, actor *domain.Operator, operatorID string, status domain.OperatorStatus) (*store.StagedIntent, error) {
	if err := requireCapability(actor, authz.CapabilityEmployeeManagement); err != nil {
		return nil, err
	}
	if status != domain.OperatorStatusActive && status != domain.OperatorStatusInactive {
		return nil, apperrors.NewValidationError("status must be active or inactive", map[string]any{"status": status})
	}

	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("operator", map[string]any{"id": operatorID})
		}
		return nil, apperrors.MapError(err)
	}
	if operator.Status == status {
		return nil, apperrors.NewConflict("operator already in requested status", map[string]any{"status": status})
	}

	return s.stage(ctx, &store.StagedIntent{
		Token:        uuid.NewString(),
		Kind:         store.IntentStatusChange,
		OperatorID:   operator.ID,
		TargetStatus: status,
		StagedBy:     actor.ID,
	})
}

// StageRemoval records an intent to irreversibly delete an operator.
func (s *DirectoryService) StageRemoval(ctx context.Context, actor *domain.Operator, operatorID string) (*store.StagedIntent, error) {
	if err := requireCapability(actor, authz.CapabilityEmployeeManagement); err != nil {
		return nil, err
	}
	if _, err := s.operators.GetByID(ctx, operatorID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("operator", map[string]any{"id": operatorID})
		}
		return nil, apperrors.MapError(err)
	}

	return s.stage(ctx, &store.StagedIntent{
		Token:      uuid.NewString(),
		Kind:       store.IntentRemoval,
		OperatorID: operatorID,
		StagedBy:   actor.ID,
	})
}

func (s *DirectoryService) stage(ctx context.Context, intent *store.StagedIntent) (*store.StagedIntent, error) {
	intent.StagedAt = time.Now()
	intent.ExpiresAt = intent.StagedAt.Add(s.intents.TTL())
	if err := s.intents.Put(ctx, intent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return intent, nil
}

// ConfirmStagedChange spends a confirmation token and applies the staged
// mutation. The returned operator is nil for removals.
func (s *DirectoryService) ConfirmStagedChange(ctx context.Context, actor *domain.Operator, token string) (*domain.Operator, *store.StagedIntent, error) {
	if err := requireCapability(actor, authz.CapabilityEmployeeManagement); err != nil {
		return nil, nil, err
	}
	intent, err := s.intents.Take(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if time.Now().After(intent.ExpiresAt) {
		return nil, nil, apperrors.NewNotFound("staged change", map[string]any{"token": token})
	}

	switch intent.Kind {
	case store.IntentStatusChange:
		operator, err := s.operators.GetByID(ctx, intent.OperatorID)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		oldStatus := operator.Status
		updated, err := s.operators.UpdateStatus(ctx, intent.OperatorID, intent.TargetStatus)
		if err != nil {
			return nil, nil, apperrors.MapError(err)
		}
		s.publish(ctx, events.Event{
			Type:     events.EventOperatorStatusChanged,
			TargetID: updated.ID,
			ActorID:  actor.ID,
			Payload:  events.OperatorStatusChangedPayload{OldStatus: oldStatus, NewStatus: updated.Status},
		})
		return updated, intent, nil

	case store.IntentRemoval:
		if err := s.operators.Delete(ctx, intent.OperatorID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, nil, apperrors.NewNotFound("operator", map[string]any{"id": intent.OperatorID})
			}
			return nil, nil, apperrors.MapError(err)
		}
		s.publish(ctx, events.Event{
			Type:     events.EventOperatorRemoved,
			TargetID: intent.OperatorID,
			ActorID:  actor.ID,
		})
		return nil, intent, nil

	default:
		return nil, nil, apperrors.NewInternalError(nil)
	}
}

// Export renders the directory as delimited text.
func (s *DirectoryService) Export(ctx context.Context, actor *domain.Operator) (string, error) {
	operators, err := s.List(ctx, actor)
	if err != nil {
		return "", err
	}
	return ExportOperatorsCSV(operators)
}

// ExportOperatorsCSV is a pure, deterministic serialization of operator
// records. Permission names are joined with "|" inside the CSV field.
func ExportOperatorsCSV(operators []domain.Operator) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write([]string{"id", "username", "email", "role", "status", "permissions"}); err != nil {
		return "", err
	}
	for _, op := range operators {
		record := []string{
			op.ID,
			op.Username,
			op.Email,
			string(op.Role),
			string(op.Status),
			strings.Join(authz.Canonicalize(op.Permissions), "|"),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return builder.String(), writer.Error()
}

func (s *DirectoryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
