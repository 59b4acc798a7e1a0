package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setSession(c, sessionWithRole(domain.RoleManager), domain.GuardAuthenticated)

	called := false
	mw := RBAC(sessionRoles{}, domain.RoleAdmin, domain.RoleManager)
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	cases := map[string]*domain.Session{
		"wrong role": sessionWithRole(domain.RoleUser),
		"anonymous":  {},
	}
	for name, sess := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setSession(c, sess, domain.GuardStateOf(sess))

			mw := RBAC(sessionRoles{}, domain.RoleAdmin, domain.RoleManager)
			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next handler")
				return nil
			})

			_ = handler(c)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"required_roles":["ADMIN","MANAGER"]`) {
				t.Fatalf("expected required roles in body, got %s", rec.Body.String())
			}
		})
	}
}

func TestRBAC_NoSessionInContext(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_ = RBAC(sessionRoles{}, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

// sessionRoles answers from the session alone, as the session store does.
type sessionRoles struct{}

func (sessionRoles) HasRole(s *domain.Session, allowed ...domain.Role) bool {
	return s.HasRole(allowed...)
}

type denyAll struct{}

func (denyAll) HasRole(*domain.Session, ...domain.Role) bool { return false }

func TestRBAC_DefersToChecker(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	setSession(c, sessionWithRole(domain.RoleAdmin), domain.GuardAuthenticated)

	_ = RBAC(denyAll{}, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 from the checker, got %d", rec.Code)
	}
}

func sessionWithRole(r domain.Role) *domain.Session {
	return &domain.Session{ID: "sid", Identity: &domain.Identity{ID: "x", Email: "x@example.com", Role: r}}
}
