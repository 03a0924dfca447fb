package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

type healthBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
	Time   string            `json:"time"`
}

func callHealth(t *testing.T, h *HealthHandler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	if err := h.Health(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return rec, body
}

func TestHealth_AllUp(t *testing.T) {
	up := func(context.Context) error { return nil }
	start := time.Now().UTC()
	rec, body := callHealth(t, NewHealthHandler(HealthCheck{"database", up}, HealthCheck{"redis", up}))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}
	if body.Status != "ok" || body.Checks["database"] != "up" || body.Checks["redis"] != "up" {
		t.Fatalf("unexpected body: %+v", body)
	}

	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	if parsed.Before(start.Add(-2 * time.Second)) {
		t.Fatalf("stale time: %v", parsed)
	}
}

func TestHealth_DependencyDown(t *testing.T) {
	h := NewHealthHandler(
		HealthCheck{"database", func(context.Context) error { return nil }},
		HealthCheck{"redis", func(context.Context) error { return errors.New("dial tcp: connection refused") }},
	)
	rec, body := callHealth(t, h)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if body.Status != "degraded" || body.Checks["redis"] != "down" || body.Checks["database"] != "up" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if strings.Contains(rec.Body.String(), "refused") {
		t.Fatalf("check error leaked: %s", rec.Body.String())
	}
}

func TestHealth_NoChecks(t *testing.T) {
	rec, body := callHealth(t, NewHealthHandler())
	if rec.Code != http.StatusOK || body.Status != "ok" || len(body.Checks) != 0 {
		t.Fatalf("unexpected: code=%d body=%+v", rec.Code, body)
	}
}
