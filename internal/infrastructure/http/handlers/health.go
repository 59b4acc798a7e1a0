package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Dependency is a backing service the readiness probe checks.
type Dependency interface {
	Name() string
	Ping(ctx context.Context) error
}

// HealthDependenciesHandler handles GET /health/ready. With the in-memory
// backend there are no dependencies and the probe is always ready.
type HealthDependenciesHandler struct {
	deps    []Dependency
	backend string
	timeout time.Duration
}

func NewHealthDependenciesHandler(backend string, deps ...Dependency) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{deps: deps, backend: backend, timeout: 3 * time.Second}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Backend      string                      `json:"backend"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Pings every configured storage backend.
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	results := make([]dependencyStatus, len(h.deps))
	var g errgroup.Group
	for i, d := range h.deps {
		g.Go(func() error {
			if err := d.Ping(ctx); err != nil {
				results[i] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
				return err
			}
			results[i] = dependencyStatus{Status: "ok"}
			return nil
		})
	}
	failed := g.Wait() != nil

	resp := readinessResponse{
		Status:       "ok",
		Backend:      h.backend,
		Dependencies: make(map[string]dependencyStatus, len(h.deps)),
	}
	for i, d := range h.deps {
		resp.Dependencies[d.Name()] = results[i]
	}
	if failed {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
