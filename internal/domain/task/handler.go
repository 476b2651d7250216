package task

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
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.svc.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return result.OK(c, Views(tasks))
}

func (h *Handler) CreateTask(c echo.Context) error {
	var in CreateTaskInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	t, err := h.svc.CreateTask(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "Task created successfully.", t.View())
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var in UpdateStatusInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	t, err := h.svc.UpdateTaskStatus(c.Request().Context(), caller, id, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusOK, "Task status updated.", t.View())
}
