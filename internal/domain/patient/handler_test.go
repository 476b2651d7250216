package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
)

func newTestHandler() (*Handler, *Service, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), svc, echo.New()
}

func jsonRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req.WithContext(auth.WithCaller(req.Context(), testCaller()))
}

func TestHandler_CreatePatient(t *testing.T) {
	h, _, e := newTestHandler()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, `{"firstName":"Jane","lastName":"Doe","dateOfBirth":"1980-05-01","gender":"female"}`), rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var env struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Data    PatientView `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if !env.Success || env.Message != "Patient added successfully." {
		t.Errorf("unexpected envelope %s", rec.Body.String())
	}
	if env.Data.Name != "Jane Doe" || env.Data.Gender != GenderFemale || env.Data.Status != Unknown {
		t.Errorf("unexpected view %+v", env.Data)
	}
}

func TestHandler_CreatePatient_BadGender(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(jsonRequest(http.MethodPost, `{"firstName":"Jane","lastName":"Doe","dateOfBirth":"1980-05-01","gender":"robot"}`), httptest.NewRecorder())

	if err := h.CreatePatient(c); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_GetPatient_InvalidID(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.GetPatient(c); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetPatient(c); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHandler_ListPatients_Search(t *testing.T) {
	h, svc, e := newTestHandler()
	createJane(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?search=jan", nil), rec)
	if err := h.ListPatients(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var env struct {
		Data []PatientView `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if len(env.Data) != 1 {
		t.Errorf("expected 1 patient, got %d", len(env.Data))
	}
}

func TestHandler_ListPatientOptions_WithMRN(t *testing.T) {
	h, svc, e := newTestHandler()
	p := createJane(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?withMrn=true", nil), rec)
	if err := h.ListPatientOptions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "(MRN: "+p.MedicalRecordNumber+")") {
		t.Errorf("expected MRN suffix in %s", rec.Body.String())
	}
}

func TestHandler_ListPatientOptions_InvalidFlag(t *testing.T) {
	h, _, e := newTestHandler()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?withMrn=yes-please", nil), httptest.NewRecorder())

	err := h.ListPatientOptions(c)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandler_ListPatientOptions_DefaultsToNoMRN(t *testing.T) {
	h, svc, e := newTestHandler()
	createJane(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := h.ListPatientOptions(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "MRN") {
		t.Errorf("expected no MRN suffix in %s", rec.Body.String())
	}
}

func TestHandler_DeletePatient(t *testing.T) {
	h, svc, e := newTestHandler()
	p := createJane(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodDelete, ""), rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Patient deleted successfully.") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_AddMedicalHistory(t *testing.T) {
	h, svc, e := newTestHandler()
	p := createJane(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, `{"diagnosis":"Flu","status":"active","severity":"low","diagnosisDate":"2024-02-01"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	if err := h.AddMedicalHistory(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var env struct {
		Data HistoryView `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Data.Status != StatusActive || env.Data.DiagnosisDate != "2024-02-01T00:00:00.000Z" {
		t.Errorf("unexpected history view %+v", env.Data)
	}
}
