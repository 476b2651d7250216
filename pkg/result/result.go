// Package result renders every API response in one envelope:
// {"success": bool, "message": "...", "data": ...}. Failures never expose
// raw store errors.
package result

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a 200 success envelope around data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope around data.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a success envelope with a message and optional data.
func Message(c echo.Context, status int, msg string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: msg, Data: data})
}

// Bind decodes the request into dst. Malformed bodies and unknown enum
// values come back as validation errors; other HTTP errors raised while
// reading the body (413 from the body limit) pass through unchanged.
func Bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return ae
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code != http.StatusBadRequest {
			return he
		}
		return apperr.Validation("body", "invalid request body")
	}
	return nil
}

// UUIDParam parses the named path parameter as a uuid.
func UUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name, "invalid "+name)
	}
	return id, nil
}

// StatusAndMessage maps err to the status code and client-facing message.
func StatusAndMessage(err error) (int, string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return apperr.HTTPStatus(ae), ae.Message
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	return http.StatusInternalServerError, apperr.MessageOf(err)
}

// HTTPErrorHandler renders err as a failure envelope. Server-side failures
// are logged with the request-scoped logger.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := StatusAndMessage(err)
		if status >= http.StatusInternalServerError {
			l := zerolog.Ctx(c.Request().Context())
			if l.GetLevel() == zerolog.Disabled {
				l = &logger
			}
			evt := l.Error()
			if apperr.Is(err, apperr.KindConnectivity) {
				// Outages are retried by clients; keep them out of error alerts.
				evt = l.Warn()
			}
			evt.Err(err).Int("status", status).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, Envelope{Success: false, Message: msg})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("failed to write error response")
		}
	}
}
