package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
	"github.com/assetintel/asset-intelligence/internal/pkg/metrics"
)

type forbiddenResponse struct {
	Error         string        `json:"error"`
	RequiredRoles []domain.Role `json:"required_roles"`
}

// RoleChecker answers whether a session holds one of the allowed roles.
// ports.AuthService satisfies it.
type RoleChecker interface {
	HasRole(session *domain.Session, allowed ...domain.Role) bool
}

// RBAC admits sessions that checker accepts for roles and answers 403
// otherwise, anonymous callers included. Register it after Session.
func RBAC(checker RoleChecker, roles ...domain.Role) echo.MiddlewareFunc {
	body := forbiddenResponse{Error: "Access forbidden", RequiredRoles: roles}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)
			if checker.HasRole(sess, roles...) {
				return next(c)
			}

			role := "anonymous"
			if sess.Authenticated() {
				role = string(sess.Identity.Role)
			}
			metrics.RoleDenialsTotal.WithLabelValues(role).Inc()
			return c.JSON(http.StatusForbidden, body)
		}
	}
}
