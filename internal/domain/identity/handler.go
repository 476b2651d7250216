package identity

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
	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)
	api.GET("/providers", h.ListProviders)
	api.POST("/users", h.CreateUser, auth.RequireRole(string(RoleAdmin)))
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return result.OK(c, views(users))
}

func (h *Handler) ListProviders(c echo.Context) error {
	users, err := h.svc.ListProviders(c.Request().Context())
	if err != nil {
		return err
	}
	return result.OK(c, views(users))
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return result.OK(c, u.View())
}

func (h *Handler) CreateUser(c echo.Context) error {
	var in CreateUserInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	u, err := h.svc.CreateUser(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "User created successfully.", u.View())
}

func views(users []*User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, u.View())
	}
	return out
}
