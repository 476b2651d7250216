package patient

import (
	"strconv"
	"strings"
	"time"

	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// Unknown is shown for status and risk when a patient has no history.
const Unknown = "unknown"

// Age is the difference between calendar years. Month and day are ignored,
// so the result can be one year off around birthdays; displayed ages have
// always been computed this way.
func Age(dob, now time.Time) int {
	return now.Year() - dob.Year()
}

// DisplayName joins first and last name.
func DisplayName(first, last string) string {
	return first + " " + last
}

type HistoryView struct {
	ID            string        `json:"id"`
	PatientID     string        `json:"patientId"`
	Diagnosis     string        `json:"diagnosis"`
	Treatment     *string       `json:"treatment"`
	Status        HistoryStatus `json:"status"`
	Severity      Severity      `json:"severity"`
	DiagnosisDate string        `json:"diagnosisDate"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

func NewHistoryView(h *MedicalHistory) HistoryView {
	return HistoryView{
		ID:            h.ID.String(),
		PatientID:     h.PatientID.String(),
		Diagnosis:     h.Diagnosis,
		Treatment:     h.Treatment,
		Status:        h.Status,
		Severity:      h.Severity,
		DiagnosisDate: isotime.Format(h.DiagnosisDate),
		CreatedAt:     isotime.Format(h.CreatedAt),
		UpdatedAt:     isotime.Format(h.UpdatedAt),
	}
}

// PatientView is the display-ready shape of a patient.
type PatientView struct {
	ID                  string        `json:"id"`
	FirstName           string        `json:"firstName"`
	LastName            string        `json:"lastName"`
	Name                string        `json:"name"`
	DateOfBirth         string        `json:"dateOfBirth"`
	Gender              Gender        `json:"gender"`
	MedicalRecordNumber string        `json:"medicalRecordNumber"`
	MRN                 string        `json:"mrn"`
	Age                 int           `json:"age"`
	LastVisit           string        `json:"lastVisit"`
	Status              string        `json:"status"`
	RiskLevel           string        `json:"riskLevel"`
	CreatedAt           string        `json:"createdAt"`
	UpdatedAt           string        `json:"updatedAt"`
	MedicalHistory      []HistoryView `json:"medicalHistory"`
}

// StatusAndRisk returns the latest history's status and severity, or
// Unknown for both.
func StatusAndRisk(latest *MedicalHistory) (string, string) {
	if latest == nil {
		return Unknown, Unknown
	}
	return string(latest.Status), string(latest.Severity)
}

// NewView shapes p for display as of now.
func NewView(p *Patient, now time.Time) PatientView {
	status, risk := StatusAndRisk(p.Latest())
	history := make([]HistoryView, 0, len(p.History))
	for _, h := range p.History {
		history = append(history, NewHistoryView(h))
	}
	return PatientView{
		ID:                  p.ID.String(),
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Name:                DisplayName(p.FirstName, p.LastName),
		DateOfBirth:         isotime.Format(p.DateOfBirth),
		Gender:              p.Gender,
		MedicalRecordNumber: p.MedicalRecordNumber,
		MRN:                 p.MedicalRecordNumber,
		Age:                 Age(p.DateOfBirth, now),
		LastVisit:           isotime.Date(p.CreatedAt),
		Status:              status,
		RiskLevel:           risk,
		CreatedAt:           isotime.Format(p.CreatedAt),
		UpdatedAt:           isotime.Format(p.UpdatedAt),
		MedicalHistory:      history,
	}
}

func NewViews(patients []*Patient, now time.Time) []PatientView {
	out := make([]PatientView, 0, len(patients))
	for _, p := range patients {
		out = append(out, NewView(p, now))
	}
	return out
}

// NewOption builds a picker entry, optionally suffixed with the MRN.
func NewOption(p *Patient, withMRN bool) Option {
	name := DisplayName(p.FirstName, p.LastName)
	if withMRN {
		name += " (MRN: " + p.MedicalRecordNumber + ")"
	}
	return Option{ID: p.ID.String(), Name: name}
}

// NewClinicalSummary joins every diagnosis and every recorded treatment,
// newest first.
func NewClinicalSummary(p *Patient, now time.Time) *ClinicalSummary {
	var diagnoses, treatments []string
	for _, h := range p.History {
		diagnoses = append(diagnoses, h.Diagnosis)
		if h.Treatment != nil && strings.TrimSpace(*h.Treatment) != "" {
			treatments = append(treatments, *h.Treatment)
		}
	}
	return &ClinicalSummary{
		PatientID:          p.ID.String(),
		Name:               DisplayName(p.FirstName, p.LastName),
		Age:                strconv.Itoa(Age(p.DateOfBirth, now)),
		Gender:             p.Gender,
		MedicalHistory:     strings.Join(diagnoses, ", "),
		CurrentMedications: strings.Join(treatments, ", "),
	}
}
