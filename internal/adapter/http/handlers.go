package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheck pings one dependency; a nil error means healthy.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Health reports "ok" with 200 when every dependency answers, otherwise
// "degraded" with 503. Check errors are not echoed back to the caller.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := chk.Ping(ctx); err != nil {
			results[chk.Name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[chk.Name] = "up"
	}
	return c.JSON(code, map[string]any{
		"status": status,
		"checks": results,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}
