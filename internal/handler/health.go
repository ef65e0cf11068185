package handler

import (
	"context"
	"net/http"
	"time"
)

// readyzTimeout bounds dependency checks during readiness probes.
const readyzTimeout = 5 * time.Second

// HealthChecker is anything whose liveness can be pinged.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	redis HealthChecker
}

// NewHealthHandler creates a new HealthHandler. Pass nil for redis when no
// Redis is configured; the readiness probe then skips the check.
func NewHealthHandler(db, redis HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redis,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is the liveness probe. It answers 200 whenever the process is up;
// no dependencies are touched.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is the readiness probe. It pings every configured dependency and
// answers 503 as soon as one fails.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	type dependency struct {
		name  string
		check HealthChecker
	}
	deps := []dependency{{"postgres", h.db}}
	if h.redis != nil {
		deps = append(deps, dependency{"redis", h.redis})
	}

	checks := make(map[string]string, len(deps))
	healthy := true
	for _, dep := range deps {
		if dep.check == nil {
			checks[dep.name] = "not configured"
			continue
		}
		if err := dep.check.Ping(ctx); err != nil {
			checks[dep.name] = "error: " + err.Error()
			healthy = false
		} else {
			checks[dep.name] = "ok"
		}
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
