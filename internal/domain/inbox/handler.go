package inbox

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/pkg/pagination"
	"github.com/clinicboard/clinicboard/pkg/result"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/messages", h.ListMessages)
	api.POST("/messages", h.SendMessage)
}

func (h *Handler) ListMessages(c echo.Context) error {
	msgs, err := h.svc.ListMessages(c.Request().Context(), pagination.Limit(c, DefaultLimit, MaxLimit))
	if err != nil {
		return err
	}
	return result.OK(c, Views(msgs))
}

func (h *Handler) SendMessage(c echo.Context) error {
	var in SendMessageInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	m, err := h.svc.SendMessage(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "Message sent.", m.View())
}
