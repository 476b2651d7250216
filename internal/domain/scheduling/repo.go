package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// List returns every appointment with patient and provider names, latest
	// date first.
	List(ctx context.Context) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error)
	// CountBetween counts appointments with from <= date < to.
	CountBetween(ctx context.Context, from, to time.Time) (int, error)
}
