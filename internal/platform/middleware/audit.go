package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/pkg/result"
)

const apiPrefix = "/api/v1/"

// AuditEntry records who touched which records and how.
type AuditEntry struct {
	UserID       string
	Role         string
	ResourceType string
	PatientID    string
	Action       string // read, create, update, delete
	Method       string
	Path         string
	IPAddress    string
	RequestID    string
	StatusCode   int
}

// Audit logs every /api/v1 request as a record-access event. It must run
// after the auth middleware so the caller is known.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, apiPrefix) {
				return next(c)
			}

			err := next(c)

			entry := buildAuditEntry(c)
			if err != nil {
				// The error handler has not written the response yet.
				entry.StatusCode, _ = result.StatusAndMessage(err)
			}

			logger.Info().
				Str("type", "record_access").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("role", entry.Role).
				Str("resource_type", entry.ResourceType).
				Str("patient_id", entry.PatientID).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("record_access")

			return err
		}
	}
}

func buildAuditEntry(c echo.Context) AuditEntry {
	req := c.Request()
	entry := AuditEntry{
		Method:       req.Method,
		Path:         req.URL.Path,
		IPAddress:    c.RealIP(),
		StatusCode:   c.Response().Status,
		Action:       httpMethodToAction(req.Method),
		ResourceType: extractResourceType(req.URL.Path),
		PatientID:    extractPatientID(req.URL.Path),
	}
	if caller, ok := auth.CallerFromContext(req.Context()); ok {
		entry.UserID = caller.UserID.String()
		entry.Role = caller.Role
	}
	if rid, ok := c.Get("request_id").(string); ok {
		entry.RequestID = rid
	}
	return entry
}

func httpMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// extractResourceType returns the first path segment after /api/v1/.
func extractResourceType(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, apiPrefix), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}

// extractPatientID finds the id in /api/v1/patients/<uuid>[/...].
func extractPatientID(path string) string {
	rest, ok := strings.CutPrefix(path, apiPrefix+"patients/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
