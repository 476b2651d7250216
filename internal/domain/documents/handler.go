package documents

import (
	"fmt"
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
	api.GET("/patients/:id/documents", h.ListDocuments)
	api.POST("/patients/:id/documents", h.UploadDocument)
	api.GET("/documents/:id/content", h.GetContent)
}

func (h *Handler) UploadDocument(c echo.Context) error {
	patientID, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	file, err := c.FormFile("file")
	if err != nil {
		return apperr.Required("file")
	}
	src, err := file.Open()
	if err != nil {
		return apperr.Internal("failed to open uploaded file", err)
	}
	defer src.Close()

	caller, _ := auth.CallerFromContext(c.Request().Context())
	d, err := h.svc.UploadDocument(c.Request().Context(), caller, patientID, Upload{
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
	}, src)
	if err != nil {
		return err
	}
	return result.Message(c, http.StatusCreated, "Document uploaded successfully.", d.View())
}

func (h *Handler) ListDocuments(c echo.Context) error {
	patientID, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	docs, err := h.svc.ListDocuments(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return result.OK(c, Views(docs))
}

func (h *Handler) GetContent(c echo.Context) error {
	id, err := result.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	d, rc, err := h.svc.OpenDocument(c.Request().Context(), id)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", d.FileName))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(d.SizeBytes, 10))
	return c.Stream(http.StatusOK, d.ContentType, rc)
}
