package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubDependency struct {
	name string
	err  error
}

func (d stubDependency) Name() string                 { return d.name }
func (d stubDependency) Ping(_ context.Context) error { return d.err }

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("Liveness returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthDependenciesHandler_Readiness(t *testing.T) {
	cases := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		{"memory backend", nil, http.StatusOK, "ok"},
		{"all healthy", []Dependency{stubDependency{name: "redis"}, stubDependency{name: "mongo"}}, http.StatusOK, "ok"},
		{"one down", []Dependency{stubDependency{name: "redis"}, stubDependency{name: "mongo", err: errors.New("no reachable servers")}}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			h := NewHealthDependenciesHandler("test", tc.deps...)
			if err := h.Readiness(c); err != nil {
				t.Fatalf("Readiness returned error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body.Status != tc.wantStatus || len(body.Dependencies) != len(tc.deps) {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}
