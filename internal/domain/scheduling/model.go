package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusBooked    AppointmentStatus = "BOOKED"
	StatusArrived   AppointmentStatus = "ARRIVED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

func ParseStatus(s string) (AppointmentStatus, error) {
	st := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusBooked, StatusArrived, StatusCancelled:
		return st, nil
	}
	return "", apperr.Validation("status", "status must be one of: PENDING BOOKED ARRIVED CANCELLED")
}

func (s *AppointmentStatus) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Appointment maps to the appointment table. PatientName and ProviderName
// are filled by list queries only.
type Appointment struct {
	ID         uuid.UUID         `db:"id"`
	PatientID  uuid.UUID         `db:"patient_id"`
	ProviderID uuid.UUID         `db:"provider_id"`
	Date       time.Time         `db:"date"`
	Status     AppointmentStatus `db:"status"`
	Reason     *string           `db:"reason"`
	CreatedAt  time.Time         `db:"created_at"`
	UpdatedAt  time.Time         `db:"updated_at"`

	PatientName  string  `db:"-"`
	ProviderName *string `db:"-"`
}

// CreateAppointmentInput; Date is YYYY-MM-DD or RFC 3339.
type CreateAppointmentInput struct {
	PatientID  uuid.UUID         `json:"patientId" validate:"required"`
	ProviderID uuid.UUID         `json:"providerId" validate:"required"`
	Date       string            `json:"date" validate:"notblank"`
	Status     AppointmentStatus `json:"status"`
	Reason     *string           `json:"reason" validate:"omitnil,max=1000"`
}

type UpdateStatusInput struct {
	Status AppointmentStatus `json:"status" validate:"required"`
}

// NotAvailable stands in for a provider without a name.
const NotAvailable = "N/A"

type AppointmentView struct {
	ID           string            `json:"id"`
	PatientID    string            `json:"patientId"`
	PatientName  string            `json:"patientName"`
	ProviderID   string            `json:"providerId"`
	ProviderName string            `json:"providerName"`
	Date         string            `json:"date"`
	Status       AppointmentStatus `json:"status"`
	Reason       *string           `json:"reason"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt"`
}

func (a *Appointment) View() AppointmentView {
	provider := NotAvailable
	if a.ProviderName != nil && strings.TrimSpace(*a.ProviderName) != "" {
		provider = *a.ProviderName
	}
	return AppointmentView{
		ID:           a.ID.String(),
		PatientID:    a.PatientID.String(),
		PatientName:  a.PatientName,
		ProviderID:   a.ProviderID.String(),
		ProviderName: provider,
		Date:         isotime.Format(a.Date),
		Status:       a.Status,
		Reason:       a.Reason,
		CreatedAt:    isotime.Format(a.CreatedAt),
		UpdatedAt:    isotime.Format(a.UpdatedAt),
	}
}

func Views(list []*Appointment) []AppointmentView {
	out := make([]AppointmentView, 0, len(list))
	for _, a := range list {
		out = append(out, a.View())
	}
	return out
}
