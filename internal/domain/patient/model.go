package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
)

type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderOther   Gender = "OTHER"
	GenderUnknown Gender = "UNKNOWN"
)

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return g, nil
	}
	return "", apperr.Validation("gender", "gender must be one of: MALE FEMALE OTHER UNKNOWN")
}

func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// HistoryStatus is the clinical state recorded with a diagnosis.
type HistoryStatus string

const (
	StatusActive   HistoryStatus = "ACTIVE"
	StatusStable   HistoryStatus = "STABLE"
	StatusCritical HistoryStatus = "CRITICAL"
	StatusResolved HistoryStatus = "RESOLVED"
)

func ParseHistoryStatus(s string) (HistoryStatus, error) {
	st := HistoryStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusStable, StatusCritical, StatusResolved:
		return st, nil
	}
	return "", apperr.Validation("status", "status must be one of: ACTIVE STABLE CRITICAL RESOLVED")
}

func (s *HistoryStatus) UnmarshalText(b []byte) error {
	v, err := ParseHistoryStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Severity is the risk classification attached to a diagnosis.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

func ParseSeverity(s string) (Severity, error) {
	sv := Severity(strings.ToUpper(strings.TrimSpace(s)))
	switch sv {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return sv, nil
	}
	return "", apperr.Validation("severity", "severity must be one of: LOW MEDIUM HIGH")
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Patient maps to the patient table. MedicalRecordNumber is assigned on
// create and never changes.
type Patient struct {
	ID                  uuid.UUID `db:"id"`
	FirstName           string    `db:"first_name"`
	LastName            string    `db:"last_name"`
	DateOfBirth         time.Time `db:"date_of_birth"`
	Gender              Gender    `db:"gender"`
	MedicalRecordNumber string    `db:"medical_record_number"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`

	// History is newest first by diagnosis date. List queries load at most
	// the latest entry.
	History []*MedicalHistory `db:"-"`
}

// Latest returns the most recent history entry, or nil.
func (p *Patient) Latest() *MedicalHistory {
	if len(p.History) == 0 {
		return nil
	}
	return p.History[0]
}

// MedicalHistory maps to the medical_history table.
type MedicalHistory struct {
	ID            uuid.UUID     `db:"id"`
	PatientID     uuid.UUID     `db:"patient_id"`
	Diagnosis     string        `db:"diagnosis"`
	Treatment     *string       `db:"treatment"`
	Status        HistoryStatus `db:"status"`
	Severity      Severity      `db:"severity"`
	DiagnosisDate time.Time     `db:"diagnosis_date"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// CreatePatientInput carries the fields accepted when registering a
// patient. DateOfBirth is YYYY-MM-DD or RFC 3339.
type CreatePatientInput struct {
	FirstName   string `json:"firstName" validate:"notblank,max=100"`
	LastName    string `json:"lastName" validate:"notblank,max=100"`
	DateOfBirth string `json:"dateOfBirth" validate:"notblank"`
	Gender      Gender `json:"gender"`
}

// UpdatePatientInput is a partial update; nil fields are left unchanged.
type UpdatePatientInput struct {
	FirstName   *string `json:"firstName" validate:"omitnil,notblank,max=100"`
	LastName    *string `json:"lastName" validate:"omitnil,notblank,max=100"`
	DateOfBirth *string `json:"dateOfBirth" validate:"omitnil,notblank"`
	Gender      *Gender `json:"gender"`
}

// PatientChanges is an UpdatePatientInput after parsing.
type PatientChanges struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Gender      *Gender
}

type AddHistoryInput struct {
	Diagnosis     string        `json:"diagnosis" validate:"notblank,max=500"`
	Treatment     *string       `json:"treatment"`
	Status        HistoryStatus `json:"status" validate:"required"`
	Severity      Severity      `json:"severity" validate:"required"`
	DiagnosisDate string        `json:"diagnosisDate" validate:"notblank"`
}

// Option is a patient picker entry.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClinicalSummary aggregates a patient's history for note drafting.
type ClinicalSummary struct {
	PatientID          string `json:"patientId"`
	Name               string `json:"name"`
	Age                string `json:"age"`
	Gender             Gender `json:"gender"`
	MedicalHistory     string `json:"medicalHistory"`
	CurrentMedications string `json:"currentMedications"`
}
