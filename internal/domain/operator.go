package domain

import (
	"sort"
	"time"
)

// OperatorRole enumerates administrative roles.
type OperatorRole string

const (
	OperatorRoleAdmin    OperatorRole = "admin"
	OperatorRoleEmployee OperatorRole = "employee"
)

// OperatorStatus gates login eligibility for an operator account.
type OperatorStatus string

const (
	OperatorStatusActive   OperatorStatus = "active"
	OperatorStatusPending  OperatorStatus = "pending"
	OperatorStatusInactive OperatorStatus = "inactive"
)

// Operator is an administrative account of the placement console.
type Operator struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         OperatorRole
	Status       OperatorStatus
	Permissions  []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SortOperators orders the directory view: admins before every other role,
// then ascending creation time, then ID as a stable tiebreak.
func SortOperators(operators []Operator) {
	sort.SliceStable(operators, func(i, j int) bool {
		a, b := operators[i], operators[j]
		if (a.Role == OperatorRoleAdmin) != (b.Role == OperatorRoleAdmin) {
			return a.Role == OperatorRoleAdmin
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
