package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/pkg/result"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard/metrics", h.GetMetrics)
	api.GET("/dashboard/recent-patients", h.GetRecentPatients)
	api.GET("/dashboard/team", h.GetHealthcareTeam)
}

func (h *Handler) GetMetrics(c echo.Context) error {
	m, err := h.svc.GetMetrics(c.Request().Context())
	if err != nil {
		return err
	}
	return result.OK(c, m)
}

func (h *Handler) GetRecentPatients(c echo.Context) error {
	list, err := h.svc.GetRecentPatients(c.Request().Context(), c.QueryParam("filter"))
	if err != nil {
		return err
	}
	return result.OK(c, list)
}

func (h *Handler) GetHealthcareTeam(c echo.Context) error {
	team, err := h.svc.GetHealthcareTeam(c.Request().Context())
	if err != nil {
		return err
	}
	return result.OK(c, team)
}
