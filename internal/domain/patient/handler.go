package patient

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/pkg/result"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/options", h.ListPatientOptions)
	api.GET("/patients/:id", h.GetPatient)
	api.GET("/patients/:id/summary", h.GetClinicalSummary)
	api.GET("/patients/:id/history", h.ListMedicalHistory)
	api.POST("/patients", h.CreatePatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
	api.POST("/patients/:id/history", h.AddMedicalHistory)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return result.OK(c, NewViews(patients, h.svc.Now()))
}

func (h *Handler) ListPatientOptions(c echo.Context) error {
	var withMRN bool
	if raw := c.QueryParam("withMrn"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.Validation("withMrn", "withMrn must be true or false")
		}
		withMRN = v
	}
	opts, err := h.svc.ListPatientOptions(c.Request().Context(), withMRN)
	if err != nil {
		return err
	}
	return result.OK(c, opts)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return result.OK(c, NewView(p, h.svc.Now()))
}

func (h *Handler) GetClinicalSummary(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.svc.GetClinicalSummary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return result.OK(c, summary)
}

func (h *Handler) ListMedicalHistory(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListMedicalHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	out := make([]HistoryView, 0, len(items))
	for _, item := range items {
		out = append(out, NewHistoryView(item))
	}
	return result.OK(c, out)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var in CreatePatientInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	p, err := h.svc.CreatePatient(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "Patient added successfully.", NewView(p, h.svc.Now()))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var in UpdatePatientInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	p, err := h.svc.UpdatePatient(c.Request().Context(), caller, id, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusOK, "Patient updated successfully.", NewView(p, h.svc.Now()))
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	if err := h.svc.DeletePatient(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return result.Message(c, http.StatusOK, "Patient deleted successfully.", nil)
}

func (h *Handler) AddMedicalHistory(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var in AddHistoryInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	entry, err := h.svc.AddMedicalHistory(c.Request().Context(), caller, id, in)
	if err != nil {
		return err
	}
	return result.Created(c, NewHistoryView(entry))
}
