package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/validate"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// PatientChecker reports a not-found error for unknown patients.
type PatientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// ProviderChecker reports whether a user may act as a provider.
type ProviderChecker interface {
	IsProvider(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	appointments AppointmentRepository
	patients     PatientChecker
	providers    ProviderChecker
}

func NewService(appointments AppointmentRepository, patients PatientChecker, providers ProviderChecker) *Service {
	return &Service{appointments: appointments, patients: patients, providers: providers}
}

func (s *Service) ListAppointments(ctx context.Context) ([]*Appointment, error) {
	return s.appointments.List(ctx)
}

// GetAppointment returns one appointment with patient and provider names.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) CreateAppointment(ctx context.Context, caller auth.Caller, in CreateAppointmentInput) (*Appointment, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	date, err := isotime.Parse(in.Date)
	if err != nil {
		return nil, apperr.Validation("date", "date must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if err := s.patients.Exists(ctx, in.PatientID); err != nil {
		return nil, err
	}
	ok, err := s.providers.IsProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("providerId", "providerId must reference a user with role DOCTOR")
	}

	status := in.Status
	if status == "" {
		status = StatusBooked
	}
	a := &Appointment{
		PatientID:  in.PatientID,
		ProviderID: in.ProviderID,
		Date:       date,
		Status:     status,
		Reason:     in.Reason,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("appointment_id", a.ID.String()).
		Str("patient_id", a.PatientID.String()).
		Msg("appointment created")

	// Re-read so the response carries the joined names.
	return s.appointments.GetByID(ctx, a.ID)
}

// UpdateAppointmentStatus overwrites the status; any transition is allowed.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, in UpdateStatusInput) (*Appointment, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	a, err := s.appointments.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("appointment_id", id.String()).
		Str("status", string(a.Status)).
		Msg("appointment status updated")
	return a, nil
}

// CountOnDay counts appointments in [midnight, next midnight) of the day
// containing now, in now's location.
func (s *Service) CountOnDay(ctx context.Context, now time.Time) (int, error) {
	from, to := DayBounds(now)
	return s.appointments.CountBetween(ctx, from, to)
}

// DayBounds returns local midnight of now's day and the following midnight.
func DayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}
