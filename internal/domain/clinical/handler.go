package clinical

import (
	"fmt"
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
	api.GET("/patients/:id/notes", h.ListNotes)
	api.POST("/notes", h.SaveClinicalNote)
	api.GET("/notes/:id", h.GetNote)
	api.GET("/notes/:id/pdf", h.GetNotePDF)
}

func (h *Handler) SaveClinicalNote(c echo.Context) error {
	var in SaveNoteInput
	if err := result.Bind(c, &in); err != nil {
		return err
	}
	caller, _ := auth.CallerFromContext(c.Request().Context())
	n, err := h.svc.SaveClinicalNote(c.Request().Context(), caller, in)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "Clinical note saved successfully.", n.View())
}

func (h *Handler) ListNotes(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	notes, err := h.svc.ListNotes(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return result.OK(c, Views(notes))
}

func (h *Handler) GetNote(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	n, err := h.svc.GetNote(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return result.OK(c, n.View())
}

func (h *Handler) GetNotePDF(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	n, doc, err := h.svc.RenderNotePDF(c.Request().Context(), id)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename="note-%s.pdf"`, n.ID))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}
