package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

type contextKey string

const callerKey contextKey = "caller"

// RoleAdmin passes every role check.
const RoleAdmin = "ADMIN"

// Caller identifies the user on whose behalf an operation runs.
type Caller struct {
	UserID uuid.UUID
	Role   string
}

// Validate rejects the zero Caller. Mutating operations call it before
// touching the store.
func (c Caller) Validate() error {
	if c.UserID == uuid.Nil {
		return apperr.Required("caller")
	}
	return nil
}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFromContext returns the caller stored by the auth middleware.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}
