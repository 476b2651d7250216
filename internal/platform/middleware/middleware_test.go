package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
)

func TestRequestID_GeneratesNew(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		rid := c.Get("request_id").(string)
		if rid == "" {
			t.Error("expected request_id to be generated")
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := RequestID()(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if rid := c.Get("request_id").(string); rid != "my-custom-id" {
			t.Errorf("expected my-custom-id, got %s", rid)
		}
		return c.String(http.StatusOK, "ok")
	}

	RequestID()(handler)(c)

	if rec.Header().Get(RequestIDHeader) != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", rec.Header().Get(RequestIDHeader))
	}
}

func TestLogger_StoresContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "rid-1")

	handler := func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from service")
		return c.String(http.StatusOK, "ok")
	}

	if err := Logger(logger)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "from service") {
		t.Error("expected service log line via zerolog.Ctx")
	}
	if strings.Count(out, `"request_id":"rid-1"`) != 2 {
		t.Errorf("expected both lines to carry request_id, got %s", out)
	}
}

func TestLogger_HandlesError(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	}

	if err := Logger(zerolog.New(&buf))(handler)(c); err != nil {
		t.Fatalf("expected error to be handled, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 written, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), `"status":404`) {
		t.Errorf("expected logged status 404, got %s", buf.String())
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := func(c echo.Context) error {
		panic("test panic")
	}

	err := Recovery(zerolog.Nop())(handler)(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	if apperr.KindOf(err) != apperr.KindInternal || apperr.HTTPStatus(err) != http.StatusInternalServerError {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	if err := Recovery(zerolog.Nop())(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestSecurityHeaders_SetsHeaders(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := SecurityHeaders()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "no-referrer",
		"Cache-Control":           "no-store",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	e := echo.New()
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	var lastErr error
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		lastErr = h(e.NewContext(req, httptest.NewRecorder()))
		if i < 2 && lastErr != nil {
			t.Fatalf("request %d: unexpected error %v", i, lastErr)
		}
	}
	he, ok := lastErr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %v", lastErr)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	if err := h(e.NewContext(req, httptest.NewRecorder())); err != nil {
		t.Errorf("expected other client to pass, got %v", err)
	}
}

func TestRateLimiterStore_EvictsIdleClients(t *testing.T) {
	store := newRateLimiterStore(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	now := time.Now()
	store.now = func() time.Time { return now }
	store.get("a")
	store.get("b")

	now = now.Add(2 * time.Minute)
	store.get("c")
	if store.size() != 1 {
		t.Errorf("expected idle clients evicted, got %d", store.size())
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1M", 1 << 20},
		{"26MB", 26 << 20},
		{"512K", 512 << 10},
		{"2G", 2 << 30},
		{"100", 100},
		{"", 1 << 20},
		{"lots", 1 << 20},
	}
	for _, tt := range tests {
		if got := parseLimit(tt.in); got != tt.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBodyLimit_RejectsOversizedBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := BodyLimit("100", "1K")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %v", err)
	}
}

func TestBodyLimit_MultipartUsesUploadLimit(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients/x/documents", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEMultipartForm+"; boundary=abc")
	c := e.NewContext(req, httptest.NewRecorder())

	err := BodyLimit("100", "1K")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	if err != nil {
		t.Fatalf("expected multipart body under upload limit to pass, got %v", err)
	}
}

func TestBodyLimit_EnforcesLimitDuringRead(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 200)))
	req.ContentLength = -1
	c := e.NewContext(req, httptest.NewRecorder())

	var readErr error
	BodyLimit("100", "1K")(func(c echo.Context) error {
		buf := make([]byte, 512)
		for readErr == nil {
			_, readErr = c.Request().Body.Read(buf)
		}
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(readErr, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 during read, got %v", readErr)
	}
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequestTimeout(time.Second)(func(c echo.Context) error {
		if _, ok := c.Request().Context().Deadline(); !ok {
			t.Error("expected deadline on request context")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequestTimeout_Returns504(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequestTimeout(10 * time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return context.DeadlineExceeded
	})(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %v", err)
	}
}

func TestAudit_LogsCallerAndPatient(t *testing.T) {
	var buf bytes.Buffer
	patientID := uuid.New()
	callerID := uuid.New()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/"+patientID.String(), nil)
	req = req.WithContext(auth.WithCaller(req.Context(), auth.Caller{UserID: callerID, Role: "DOCTOR"}))
	c := e.NewContext(req, httptest.NewRecorder())

	err := Audit(zerolog.New(&buf))(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`"action":"delete"`,
		`"resource_type":"patients"`,
		`"patient_id":"` + patientID.String() + `"`,
		`"user_id":"` + callerID.String() + `"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestAudit_RecordsErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", apperr.NotFound("patient", uuid.NewString()), `"status":404`},
		{"validation", apperr.Required("firstName"), `"status":400`},
		{"constraint", apperr.Constraint("duplicate", nil), `"status":409`},
		{"http error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), `"status":401`},
		{"unclassified", errors.New("boom"), `"status":500`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/"+uuid.NewString(), nil)
			c := e.NewContext(req, httptest.NewRecorder())

			err := Audit(zerolog.New(&buf))(func(c echo.Context) error { return tt.err })(c)
			if err != tt.err {
				t.Fatalf("expected handler error to pass through, got %v", err)
			}
			if out := buf.String(); !strings.Contains(out, tt.want) {
				t.Errorf("expected %s in %s", tt.want, out)
			}
		})
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	Audit(zerolog.New(&buf))(func(c echo.Context) error { return nil })(c)
	if buf.Len() != 0 {
		t.Errorf("expected no audit entry, got %s", buf.String())
	}
}

func TestExtractPatientID(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/patients/" + id, id},
		{"/api/v1/patients/" + id + "/history", id},
		{"/api/v1/patients/options", ""},
		{"/api/v1/tasks/" + id, ""},
	}
	for _, tt := range tests {
		if got := extractPatientID(tt.path); got != tt.want {
			t.Errorf("extractPatientID(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
