package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/placement-admin/internal/domain"
)

// OperatorRepository handles persistence for administrative operators.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error)
	List(ctx context.Context) ([]domain.Operator, error)
	UpdatePermissions(ctx context.Context, id string, permissions []string) (*domain.Operator, error)
	UpdateStatus(ctx context.Context, id string, status domain.OperatorStatus) (*domain.Operator, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository instantiates the repository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

const operatorColumns = "id, username, email, password_hash, role, status, permissions, created_at, updated_at"

func scanOperator(row pgx.Row) (*domain.Operator, error) {
	var op domain.Operator
	if err := row.Scan(
		&op.ID,
		&op.Username,
		&op.Email,
		&op.PasswordHash,
		&op.Role,
		&op.Status,
		&op.Permissions,
		&op.CreatedAt,
		&op.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	const query = `
        INSERT INTO operators (username, email, password_hash, role, status, permissions)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		operator.Username,
		operator.Email,
		operator.PasswordHash,
		operator.Role,
		operator.Status,
		operator.Permissions,
	).Scan(&operator.ID, &operator.CreatedAt, &operator.UpdatedAt)
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE id=$1`
	return scanOperator(r.pool.QueryRow(ctx, query, id))
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE email=$1`
	return scanOperator(r.pool.QueryRow(ctx, query, email))
}

func (r *operatorRepository) GetByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	const query = `SELECT ` + operatorColumns + ` FROM operators WHERE username=$1`
	return scanOperator(r.pool.QueryRow(ctx, query, username))
}

// List reads in directory order: admins first, then onboarding order, id as
// the stable tiebreak. The same ordering exists as domain.SortOperators for
// locally merged views.
func (r *operatorRepository) List(ctx context.Context) ([]domain.Operator, error) {
	const query = `
        SELECT ` + operatorColumns + `
        FROM operators
        ORDER BY (role = 'admin') DESC, created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Operator
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *op)
	}
	return result, rows.Err()
}

func (r *operatorRepository) UpdatePermissions(ctx context.Context, id string, permissions []string) (*domain.Operator, error) {
	const query = `
        UPDATE operators SET permissions=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + operatorColumns
	return scanOperator(r.pool.QueryRow(ctx, query, permissions, id))
}

func (r *operatorRepository) UpdateStatus(ctx context.Context, id string, status domain.OperatorStatus) (*domain.Operator, error) {
	const query = `
        UPDATE operators SET status=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING ` + operatorColumns
	return scanOperator(r.pool.QueryRow(ctx, query, status, id))
}

func (r *operatorRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE operators SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *operatorRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM operators WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
