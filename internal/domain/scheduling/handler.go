package scheduling

import (
	"net/http"

	"github.com/labstack/echo/v4"

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
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.POST("/appointments", h.CreateAppointment)
	api.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	list, err := h.svc.ListAppointments(c.Request().Context())
	if err != nil {
		return err
	}
	return result.OK(c, Views(list))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return result.OK(c, a.View())
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in CreateAppointmentInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	a, err := h.svc.CreateAppointment(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "Appointment booked successfully.", a.View())
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var in UpdateStatusInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	a, err := h.svc.UpdateAppointmentStatus(c.Request().Context(), caller, id, in)
	if err != nil {
		return err
	}
	return result.OK(c, a.View())
}
