package dashboard

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clinicboard/clinicboard/internal/domain/identity"
	"github.com/clinicboard/clinicboard/internal/domain/patient"
)

type PatientStats interface {
	CountPatients(ctx context.Context) (int, error)
	CountHistoryByStatus(ctx context.Context, status patient.HistoryStatus) (int, error)
	RecentPatients(ctx context.Context, status patient.HistoryStatus, limit int) ([]*patient.Patient, error)
}

type AppointmentCounter interface {
	// CountOnDay counts appointments on the local calendar day of now.
	CountOnDay(ctx context.Context, now time.Time) (int, error)
}

type StaffDirectory interface {
	CountDoctors(ctx context.Context) (int, error)
	ListDoctors(ctx context.Context, limit int) ([]*identity.User, error)
}

type Service struct {
	patients     PatientStats
	appointments AppointmentCounter
	staff        StaffDirectory
	now          func() time.Time
}

func NewService(patients PatientStats, appointments AppointmentCounter, staff StaffDirectory) *Service {
	return &Service{patients: patients, appointments: appointments, staff: staff, now: time.Now}
}

// GetMetrics runs the four counts independently; they are not read from a
// single snapshot.
func (s *Service) GetMetrics(ctx context.Context) (*Metrics, error) {
	now := s.now()
	var m Metrics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.TotalPatients.Value, err = s.patients.CountPatients(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.TodaysAppointments.Value, err = s.appointments.CountOnDay(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		m.CriticalAlerts.Value, err = s.patients.CountHistoryByStatus(gctx, patient.StatusCritical)
		return err
	})
	g.Go(func() (err error) {
		m.ActiveProviders.Value, err = s.staff.CountDoctors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetRecentPatients returns the newest patients. filter is "", "all" or a
// history status; a status keeps patients with any entry in that status.
func (s *Service) GetRecentPatients(ctx context.Context, filter string) ([]RecentPatient, error) {
	var status patient.HistoryStatus
	if f := strings.TrimSpace(filter); f != "" && !strings.EqualFold(f, "all") {
		var err error
		if status, err = patient.ParseHistoryStatus(f); err != nil {
			return nil, err
		}
	}
	patients, err := s.patients.RecentPatients(ctx, status, RecentPatientLimit)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]RecentPatient, 0, len(patients))
	for _, p := range patients {
		out = append(out, newRecentPatient(p, now))
	}
	return out, nil
}

func (s *Service) GetHealthcareTeam(ctx context.Context) ([]TeamMember, error) {
	doctors, err := s.staff.ListDoctors(ctx, TeamLimit)
	if err != nil {
		return nil, err
	}
	out := make([]TeamMember, 0, len(doctors))
	for _, u := range doctors {
		out = append(out, newTeamMember(u))
	}
	return out, nil
}
