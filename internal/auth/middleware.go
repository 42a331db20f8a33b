package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/placement-admin/internal/authz"
	"github.com/spec-kit/placement-admin/internal/domain"
	"github.com/spec-kit/placement-admin/internal/repository"
	apperrors "github.com/spec-kit/placement-admin/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated operator plus its resolved
// permission set. The set is rebuilt per request from the stored record, not
// from token claims, so permission changes apply without re-login.
type Principal struct {
	Operator    *domain.Operator
	Permissions authz.PermissionSet
}

// AuthMiddleware validates bearer tokens and loads operator principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	operators repository.OperatorRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, operators repository.OperatorRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, operators: operators}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	operator, err := m.operators.GetByID(c.Context(), claims.OperatorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("operator not found")
		}
		return apperrors.MapError(err)
	}
	if operator.Status != domain.OperatorStatusActive {
		return apperrors.NewForbidden("operator login disabled")
	}

	c.Locals(principalKey, &Principal{
		Operator:    operator,
		Permissions: authz.NewPermissionSet(operator.Permissions),
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated operator.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
