package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-admin/internal/domain"
)

// TicketRepository handles persistence for manual document-review tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.DocumentTicket) error
	GetByID(ctx context.Context, id string) (*domain.DocumentTicket, error)
	List(ctx context.Context, status *domain.DocumentTicketStatus) ([]domain.DocumentTicket, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentTicketStatus) (*domain.DocumentTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = "id, subject_id, subject_name, document_type, description, file_key, status, created_by, created_at, updated_at"

func scanTicket(row pgx.Row) (*domain.DocumentTicket, error) {
	var ticket domain.DocumentTicket
	if err := row.Scan(
		&ticket.ID,
		&ticket.SubjectID,
		&ticket.SubjectName,
		&ticket.DocumentType,
		&ticket.Description,
		&ticket.FileKey,
		&ticket.Status,
		&ticket.CreatedBy,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.DocumentTicket) error {
	const query = `
        INSERT INTO document_tickets (subject_id, subject_name, document_type, description, file_key, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.SubjectID,
		ticket.SubjectName,
		ticket.DocumentType,
		ticket.Description,
		ticket.FileKey,
		ticket.Status,
		ticket.CreatedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.DocumentTicket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM document_tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) List(ctx context.Context, status *domain.DocumentTicketStatus) ([]domain.DocumentTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM document_tickets`
	args := []any{}
	if status != nil {
		query += ` WHERE status=$1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DocumentTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentTicketStatus) (*domain.DocumentTicket, error) {
	const query = `
        UPDATE document_tickets SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + ticketColumns
	return scanTicket(r.pool.QueryRow(ctx, query, status, id))
}
