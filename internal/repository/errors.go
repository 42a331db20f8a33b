package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Check-then-insert callers still race; this classifies the losing insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
