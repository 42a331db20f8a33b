package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/repository"
	"github.com/spec-kit/placement-admin/internal/service"
	"github.com/spec-kit/placement-admin/internal/store"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

type fakeOperatorRepo struct {
	operators map[string]*domain.Operator
	seq       int
	clock     time.Time
}

func newFakeOperatorRepo() *fakeOperatorRepo {
	return &fakeOperatorRepo{
		operators: make(map[string]*domain.Operator),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var _ repository.OperatorRepository = (*fakeOperatorRepo)(nil)

func (r *fakeOperatorRepo) Create(_ context.Context, operator *domain.Operator) error {
	r.seq++
	operator.ID = fmt.Sprintf("op-%d", r.seq)
	r.clock = r.clock.Add(time.Minute)
	operator.CreatedAt = r.clock
	operator.UpdatedAt = r.clock
	clone := *operator
	r.operators[operator.ID] = &clone
	return nil
}

func (r *fakeOperatorRepo) GetByID(_ context.Context, id string) (*domain.Operator, error) {
	operator, ok := r.operators[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *operator
	return &clone, nil
}

func (r *fakeOperatorRepo) GetByEmail(_ context.Context, email string) (*domain.Operator, error) {
	for _, operator := range r.operators {
		if operator.Email == email {
			clone := *operator
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOperatorRepo) GetByUsername(_ context.Context, username string) (*domain.Operator, error) {
	for _, operator := range r.operators {
		if operator.Username == username {
			clone := *operator
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeOperatorRepo) List(_ context.Context) ([]domain.Operator, error) {
	result := make([]domain.Operator, 0, len(r.operators))
	for _, operator := range r.operators {
		result = append(result, *operator)
	}
	return result, nil
}

func (r *fakeOperatorRepo) UpdatePermissions(_ context.Context, id string, permissions []string) (*domain.Operator, error) {
	operator, ok := r.operators[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	operator.Permissions = permissions
	clone := *operator
	return &clone, nil
}

func (r *fakeOperatorRepo) UpdateStatus(_ context.Context, id string, status domain.OperatorStatus) (*domain.Operator, error) {
	operator, ok := r.operators[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	operator.Status = status
	clone := *operator
	return &clone, nil
}

func (r *fakeOperatorRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	operator, ok := r.operators[id]
	if !ok {
		return pgx.ErrNoRows
	}
	operator.PasswordHash = passwordHash
	return nil
}

func (r *fakeOperatorRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.operators[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.operators, id)
	return nil
}

type fakeIntentStore struct {
	intents map[string]*store.StagedIntent
}

func newFakeIntentStore() *fakeIntentStore {
	return &fakeIntentStore{intents: make(map[string]*store.StagedIntent)}
}

func (s *fakeIntentStore) TTL() time.Duration { return 5 * time.Minute }

func (s *fakeIntentStore) Put(_ context.Context, intent *store.StagedIntent) error {
	s.intents[intent.Token] = intent
	return nil
}

func (s *fakeIntentStore) Take(_ context.Context, token string) (*store.StagedIntent, error) {
	intent, ok := s.intents[token]
	if !ok {
		return nil, apperrors.NewNotFound("staged change", nil)
	}
	delete(s.intents, token)
	return intent, nil
}

func adminActor() *domain.Operator {
	return &domain.Operator{
		ID:          "actor-1",
		Username:    "root",
		Role:        domain.OperatorRoleAdmin,
		Status:      domain.OperatorStatusActive,
		Permissions: []string{"Employee Management", "Dashboard"},
	}
}

func newDirectoryFixture(t *testing.T) (*service.DirectoryService, *fakeOperatorRepo, *fakeIntentStore) {
	t.Helper()
	repo := newFakeOperatorRepo()
	intents := newFakeIntentStore()
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	svc := service.NewDirectoryService(cfg, service.DirectoryDependencies{
		OperatorRepo: repo,
		IntentStore:  intents,
	})
	return svc, repo, intents
}

func TestListOrdersAdminsFirstThenCreation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newDirectoryFixture(t)
	actor := adminActor()
	ctx := context.Background()

	first, err := svc.Create(ctx, actor, "emp.early", "early@example.com", "secret", domain.OperatorRoleEmployee)
	require.NoError(t, err)
	second, err := svc.Create(ctx, actor, "admin.late", "late@example.com", "secret", domain.OperatorRoleAdmin)
	require.NoError(t, err)
	third, err := svc.Create(ctx, actor, "emp.later", "later@example.com", "secret", domain.OperatorRoleEmployee)
	require.NoError(t, err)

	listed, err := svc.List(ctx, actor)
	require.NoError(t, err)
	require.Equal(t, []string{second.ID, first.ID, third.ID}, []string{listed[0].ID, listed[1].ID, listed[2].ID})
}

func TestCreateValidationAndConflicts(t *testing.T) {
	t.Parallel()

	svc, _, _ := newDirectoryFixture(t)
	actor := adminActor()
	ctx := context.Background()

	_, err := svc.Create(ctx, actor, "", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(ctx, actor, "someone", "a@example.com", "secret", domain.OperatorRole("superuser"))
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	created, err := svc.Create(ctx, actor, "someone", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.NoError(t, err)
	require.Equal(t, domain.OperatorStatusPending, created.Status)

	_, err = svc.Create(ctx, actor, "other", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	noAuth := &domain.Operator{ID: "actor-2", Permissions: []string{"Dashboard"}}
	_, err = svc.Create(ctx, noAuth, "third", "c@example.com", "secret", domain.OperatorRoleEmployee)
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

type conflictingCreateRepo struct {
	*fakeOperatorRepo
}

func (r *conflictingCreateRepo) Create(_ context.Context, _ *domain.Operator) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "operators_email_key"}
}

func TestCreateUniqueViolationIsConflict(t *testing.T) {
	t.Parallel()

	repo := &conflictingCreateRepo{fakeOperatorRepo: newFakeOperatorRepo()}
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	svc := service.NewDirectoryService(cfg, service.DirectoryDependencies{
		OperatorRepo: repo,
		IntentStore:  newFakeIntentStore(),
	})

	// the duplicate slipped past the lookup and lost the insert race
	_, err := svc.Create(context.Background(), adminActor(), "someone", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestSetPermissionsCanonicalizes(t *testing.T) {
	t.Parallel()

	svc, _, _ := newDirectoryFixture(t)
	actor := adminActor()
	ctx := context.Background()

	created, err := svc.Create(ctx, actor, "someone", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.NoError(t, err)

	updated, err := svc.SetPermissions(ctx, actor, created.ID,
		[]string{"Support Panel", "Dashboard", "Support Panel", "Analytics"})
	require.NoError(t, err)
	require.Equal(t, []string{"Analytics", "Dashboard", "Support Panel"}, updated.Permissions)

	reordered, err := svc.SetPermissions(ctx, actor, created.ID,
		[]string{"Analytics", "Support Panel", "Dashboard"})
	require.NoError(t, err)
	require.Equal(t, updated.Permissions, reordered.Permissions)

	_, err = svc.SetPermissions(ctx, actor, "missing", []string{"Dashboard"})
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestStatusChangeStageConfirm(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newDirectoryFixture(t)
	actor := adminActor()
	ctx := context.Background()

	created, err := svc.Create(ctx, actor, "someone", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, created.ID, domain.OperatorStatusActive)
	require.NoError(t, err)

	intent, err := svc.StageStatusChange(ctx, actor, created.ID, domain.OperatorStatusInactive)
	require.NoError(t, err)
	require.NotEmpty(t, intent.Token)

	// staged but unconfirmed must not touch the record
	current, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OperatorStatusActive, current.Status)

	updated, spent, err := svc.ConfirmStagedChange(ctx, actor, intent.Token)
	require.NoError(t, err)
	require.Equal(t, store.IntentStatusChange, spent.Kind)
	require.Equal(t, domain.OperatorStatusInactive, updated.Status)

	// confirmation tokens are single-use
	_, _, err = svc.ConfirmStagedChange(ctx, actor, intent.Token)
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	// staging a no-op transition is refused
	_, err = svc.StageStatusChange(ctx, actor, created.ID, domain.OperatorStatusInactive)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestRemovalStageConfirm(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newDirectoryFixture(t)
	actor := adminActor()
	ctx := context.Background()

	created, err := svc.Create(ctx, actor, "someone", "a@example.com", "secret", domain.OperatorRoleEmployee)
	require.NoError(t, err)

	intent, err := svc.StageRemoval(ctx, actor, created.ID)
	require.NoError(t, err)

	operator, spent, err := svc.ConfirmStagedChange(ctx, actor, intent.Token)
	require.NoError(t, err)
	require.Nil(t, operator)
	require.Equal(t, store.IntentRemoval, spent.Kind)

	_, err = repo.GetByID(ctx, created.ID)
	require.Equal(t, pgx.ErrNoRows, err)
}

func TestExportOperatorsCSV(t *testing.T) {
	t.Parallel()

	operators := []domain.Operator{
		{
			ID:          "op-1",
			Username:    "admin,root",
			Email:       "root@example.com",
			Role:        domain.OperatorRoleAdmin,
			Status:      domain.OperatorStatusActive,
			Permissions: []string{"Employee Management", "Dashboard"},
		},
		{
			ID:       "op-2",
			Username: "employee",
			Email:    "emp@example.com",
			Role:     domain.OperatorRoleEmployee,
			Status:   domain.OperatorStatusPending,
		},
	}

	out, err := service.ExportOperatorsCSV(operators)
	require.NoError(t, err)

	again, err := service.ExportOperatorsCSV(operators)
	require.NoError(t, err)
	require.Equal(t, out, again, "export must be deterministic")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "id,username,email,role,status,permissions", lines[0])
	require.Contains(t, lines[1], `"admin,root"`, "field delimiter must be escaped")
	require.Contains(t, lines[1], "Dashboard|Employee Management")
}

func TestSortOperatorsStable(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	operators := []domain.Operator{
		{ID: "b", Role: domain.OperatorRoleEmployee, CreatedAt: base},
		{ID: "a", Role: domain.OperatorRoleAdmin, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Role: domain.OperatorRoleEmployee, CreatedAt: base},
		{ID: "d", Role: domain.OperatorRoleAdmin, CreatedAt: base},
	}

	domain.SortOperators(operators)
	require.Equal(t, "d", operators[0].ID)
	require.Equal(t, "a", operators[1].ID)
	require.Equal(t, "b", operators[2].ID)
	require.Equal(t, "c", operators[3].ID)
}
