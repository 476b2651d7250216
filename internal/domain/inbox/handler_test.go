package inbox

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
)

func TestHandler_SendMessage(t *testing.T) {
	svc, _, recipient := newTestService()
	h, e := NewHandler(svc), echo.New()
	body := `{"recipientId":"` + recipient.String() + `","content":"Room 4 is ready"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(auth.WithCaller(req.Context(), testCaller()))
	rec := httptest.NewRecorder()

	if err := h.SendMessage(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_SendMessage_NoCaller(t *testing.T) {
	svc, _, recipient := newTestService()
	h, e := NewHandler(svc), echo.New()
	body := `{"recipientId":"` + recipient.String() + `","content":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	if err := h.SendMessage(e.NewContext(req, httptest.NewRecorder())); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_ListMessages_LimitParam(t *testing.T) {
	svc, repo, _ := newTestService()
	h, e := NewHandler(svc), echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=999", nil), rec)

	if err := h.ListMessages(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastLimit != MaxLimit {
		t.Errorf("expected limit %d, got %d", MaxLimit, repo.lastLimit)
	}
	var env struct {
		Success bool          `json:"success"`
		Data    []MessageView `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if !env.Success || env.Data == nil {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
