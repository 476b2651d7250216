package dashboard

import (
	"strings"
	"time"

	"github.com/clinicboard/clinicboard/internal/domain/identity"
	"github.com/clinicboard/clinicboard/internal/domain/patient"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

const (
	RecentPatientLimit = 5
	TeamLimit          = 4
)

const (
	// NoCondition is shown for patients without history.
	NoCondition     = "N/A"
	UnnamedProvider = "Unnamed Provider"
)

type Metric struct {
	Value int `json:"value"`
}

type Metrics struct {
	TotalPatients      Metric `json:"totalPatients"`
	TodaysAppointments Metric `json:"todaysAppointments"`
	CriticalAlerts     Metric `json:"criticalAlerts"`
	ActiveProviders    Metric `json:"activeProviders"`
}

type RecentPatient struct {
	ID        string `json:"id"`
	MRN       string `json:"mrn"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	LastVisit string `json:"lastVisit"`
	Condition string `json:"condition"`
	Status    string `json:"status"`
	RiskLevel string `json:"riskLevel"`
}

func newRecentPatient(p *patient.Patient, now time.Time) RecentPatient {
	status, risk := patient.StatusAndRisk(p.Latest())
	condition := NoCondition
	if h := p.Latest(); h != nil && strings.TrimSpace(h.Diagnosis) != "" {
		condition = h.Diagnosis
	}
	return RecentPatient{
		ID:        p.ID.String(),
		MRN:       p.MedicalRecordNumber,
		Name:      patient.DisplayName(p.FirstName, p.LastName),
		Age:       patient.Age(p.DateOfBirth, now),
		LastVisit: isotime.Date(p.CreatedAt),
		Condition: condition,
		Status:    status,
		RiskLevel: risk,
	}
}

type TeamMember struct {
	ID   string        `json:"id"`
	Name string        `json:"name"`
	Role identity.Role `json:"role"`
}

func newTeamMember(u *identity.User) TeamMember {
	return TeamMember{ID: u.ID.String(), Name: u.DisplayName(UnnamedProvider), Role: u.Role}
}
