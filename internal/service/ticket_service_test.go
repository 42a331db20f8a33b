package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/repository"
	"github.com/spec-kit/placement-admin/internal/service"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.DocumentTicket
	seq     int
}

var _ repository.TicketRepository = (*fakeTicketRepo)(nil)

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.DocumentTicket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.DocumentTicket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("tic-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.DocumentTicket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) List(_ context.Context, status *domain.DocumentTicketStatus) ([]domain.DocumentTicket, error) {
	result := make([]domain.DocumentTicket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		if status == nil || ticket.Status == *status {
			result = append(result, *ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.DocumentTicketStatus) (*domain.DocumentTicket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	ticket.Status = status
	clone := *ticket
	return &clone, nil
}

func supportActor() *domain.Operator {
	return &domain.Operator{ID: "actor-1", Status: domain.OperatorStatusActive, Permissions: []string{"Support Panel"}}
}

func TestTicketCreateValidation(t *testing.T) {
	t.Parallel()

	svc := service.NewTicketService(newFakeTicketRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input service.TicketCreateInput
	}{
		{"missing subject", service.TicketCreateInput{DocumentType: "PAN Card", Description: "blurry scan"}},
		{"missing document type", service.TicketCreateInput{SubjectID: "stu-1", Description: "blurry scan"}},
		{"missing description", service.TicketCreateInput{SubjectID: "stu-1", DocumentType: "PAN Card"}},
		{"whitespace description", service.TicketCreateInput{SubjectID: "stu-1", DocumentType: "PAN Card", Description: "   "}},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Create(ctx, supportActor(), test.input)
			require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
		})
	}
}

func TestTicketCreateAndResolve(t *testing.T) {
	t.Parallel()

	svc := service.NewTicketService(newFakeTicketRepo(), nil)
	ctx := context.Background()
	actor := supportActor()

	ticket, err := svc.Create(ctx, actor, service.TicketCreateInput{
		SubjectID:    "stu-1",
		SubjectName:  "Asha Rao",
		DocumentType: "10th Marksheet",
		Description:  "board name unreadable, needs manual check",
	})
	require.NoError(t, err)
	require.Equal(t, domain.DocumentTicketStatusPending, ticket.Status)
	require.Equal(t, actor.ID, ticket.CreatedBy)

	resolved, err := svc.Resolve(ctx, actor, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentTicketStatusResolved, resolved.Status)

	_, err = svc.Resolve(ctx, actor, ticket.ID)
	require.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	_, err = svc.Resolve(ctx, actor, "missing")
	require.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestTicketRequiresSupportPanel(t *testing.T) {
	t.Parallel()

	svc := service.NewTicketService(newFakeTicketRepo(), nil)
	actor := &domain.Operator{ID: "actor-2", Permissions: []string{"Dashboard"}}

	_, err := svc.Create(context.Background(), actor, service.TicketCreateInput{
		SubjectID:    "stu-1",
		DocumentType: "PAN Card",
		Description:  "manual check",
	})
	require.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}
