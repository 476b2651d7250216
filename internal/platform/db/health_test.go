package db

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

func TestCheckHealth_Healthy(t *testing.T) {
	code, h := checkHealth(context.Background(), func(context.Context) error { return nil })
	if code != http.StatusOK || !h.Success || h.Status != "healthy" || h.Message != "" {
		t.Errorf("unexpected result %d %+v", code, h)
	}
	if h.Latency == "" {
		t.Error("expected latency")
	}
}

func TestCheckHealth_Unreachable(t *testing.T) {
	code, h := checkHealth(context.Background(), func(context.Context) error { return errors.New("dial tcp: refused") })
	if code != http.StatusServiceUnavailable || h.Success || h.Status != "unhealthy" {
		t.Errorf("unexpected result %d %+v", code, h)
	}
	if h.Message != apperr.ConnectivityMessage {
		t.Errorf("expected connectivity message, got %q", h.Message)
	}
}

func TestCheckHealth_PingHasDeadline(t *testing.T) {
	checkHealth(context.Background(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected ping context to carry a deadline")
		}
		return nil
	})
}

func TestHealthHandler_NoPool(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/db", nil), rec)

	if err := HealthHandler(nil)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "unhealthy" || body["success"] != false {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if _, ok := body["pool"]; ok {
		t.Errorf("expected no pool stats, got %s", rec.Body.String())
	}
}
