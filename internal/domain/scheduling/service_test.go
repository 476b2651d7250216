package scheduling

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
)

// -- Mocks --

type mockAppointmentRepo struct {
	store map[uuid.UUID]*Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{store: make(map[uuid.UUID]*Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.store[a.ID] = a
	return nil
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("appointment", id.String())
	}
	return a, nil
}

func (m *mockAppointmentRepo) List(_ context.Context) ([]*Appointment, error) {
	var out []*Appointment
	for _, a := range m.store {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	a, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("appointment", "")
	}
	a.Status = status
	return a, nil
}

func (m *mockAppointmentRepo) CountBetween(_ context.Context, from, to time.Time) (int, error) {
	n := 0
	for _, a := range m.store {
		if !a.Date.Before(from) && a.Date.Before(to) {
			n++
		}
	}
	return n, nil
}

type mockPatients map[uuid.UUID]bool

func (m mockPatients) Exists(_ context.Context, id uuid.UUID) error {
	if !m[id] {
		return apperr.NotFound("patient", "")
	}
	return nil
}

type mockProviders map[uuid.UUID]bool

func (m mockProviders) IsProvider(_ context.Context, id uuid.UUID) (bool, error) {
	doctor, ok := m[id]
	if !ok {
		return false, apperr.NotFound("user", "")
	}
	return doctor, nil
}

type fixture struct {
	svc       *Service
	repo      *mockAppointmentRepo
	patientID uuid.UUID
	doctorID  uuid.UUID
	nurseID   uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newMockAppointmentRepo(),
		patientID: uuid.New(),
		doctorID:  uuid.New(),
		nurseID:   uuid.New(),
	}
	f.svc = NewService(f.repo,
		mockPatients{f.patientID: true},
		mockProviders{f.doctorID: true, f.nurseID: false})
	return f
}

func newTestService() *Service {
	return newFixture().svc
}

func testCaller() auth.Caller {
	return auth.Caller{UserID: uuid.New(), Role: "STAFF"}
}

// -- Service Tests --

func TestService_CreateAppointment_DefaultsToBooked(t *testing.T) {
	f := newFixture()
	a, err := f.svc.CreateAppointment(context.Background(), testCaller(), CreateAppointmentInput{
		PatientID: f.patientID, ProviderID: f.doctorID, Date: "2025-03-01T09:30:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusBooked {
		t.Errorf("expected BOOKED, got %s", a.Status)
	}
	if a.Date.Hour() != 9 || a.Date.Minute() != 30 {
		t.Errorf("unexpected date %v", a.Date)
	}
}

func TestService_CreateAppointment_KeepsStatus(t *testing.T) {
	f := newFixture()
	a, err := f.svc.CreateAppointment(context.Background(), testCaller(), CreateAppointmentInput{
		PatientID: f.patientID, ProviderID: f.doctorID, Date: "2025-03-01", Status: StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != StatusPending {
		t.Errorf("expected PENDING, got %s", a.Status)
	}
}

func TestService_CreateAppointment_Errors(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name string
		in   CreateAppointmentInput
		kind apperr.Kind
	}{
		{"missing patient", CreateAppointmentInput{ProviderID: f.doctorID, Date: "2025-03-01"}, apperr.KindValidation},
		{"missing provider", CreateAppointmentInput{PatientID: f.patientID, Date: "2025-03-01"}, apperr.KindValidation},
		{"missing date", CreateAppointmentInput{PatientID: f.patientID, ProviderID: f.doctorID}, apperr.KindValidation},
		{"bad date", CreateAppointmentInput{PatientID: f.patientID, ProviderID: f.doctorID, Date: "tomorrow"}, apperr.KindValidation},
		{"unknown patient", CreateAppointmentInput{PatientID: uuid.New(), ProviderID: f.doctorID, Date: "2025-03-01"}, apperr.KindNotFound},
		{"provider not a doctor", CreateAppointmentInput{PatientID: f.patientID, ProviderID: f.nurseID, Date: "2025-03-01"}, apperr.KindValidation},
		{"unknown provider", CreateAppointmentInput{PatientID: f.patientID, ProviderID: uuid.New(), Date: "2025-03-01"}, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateAppointment(context.Background(), testCaller(), tt.in)
			if !apperr.Is(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
	if len(f.repo.store) != 0 {
		t.Errorf("expected no appointments stored, got %d", len(f.repo.store))
	}
}

func TestService_GetAppointment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.svc.CreateAppointment(ctx, testCaller(), CreateAppointmentInput{
		PatientID: f.patientID, ProviderID: f.doctorID, Date: "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := f.svc.GetAppointment(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID || got.ProviderID != f.doctorID {
		t.Errorf("unexpected appointment %+v", got)
	}

	missing := uuid.New()
	_, err = f.svc.GetAppointment(ctx, missing)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(apperr.MessageOf(err), missing.String()) {
		t.Errorf("expected id in message, got %q", apperr.MessageOf(err))
	}
}

func TestService_UpdateAppointmentStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, _ := f.svc.CreateAppointment(ctx, testCaller(), CreateAppointmentInput{
		PatientID: f.patientID, ProviderID: f.doctorID, Date: "2025-03-01",
	})

	for _, st := range []AppointmentStatus{StatusCancelled, StatusArrived} {
		got, err := f.svc.UpdateAppointmentStatus(ctx, testCaller(), a.ID, UpdateStatusInput{Status: st})
		if err != nil {
			t.Fatalf("update to %s: %v", st, err)
		}
		if got.Status != st {
			t.Errorf("expected %s, got %s", st, got.Status)
		}
	}
}

func TestService_UpdateAppointmentStatus_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.UpdateAppointmentStatus(context.Background(), testCaller(), uuid.New(), UpdateStatusInput{Status: StatusArrived})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_UpdateAppointmentStatus_RequiresStatus(t *testing.T) {
	svc := newTestService()
	_, err := svc.UpdateAppointmentStatus(context.Background(), testCaller(), uuid.New(), UpdateStatusInput{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestService_CountOnDay_MidnightBoundary(t *testing.T) {
	f := newFixture()
	loc := time.FixedZone("clinic", -5*3600)
	now := time.Date(2025, 4, 10, 14, 0, 0, 0, loc)

	for _, d := range []time.Time{
		time.Date(2025, 4, 9, 23, 59, 59, 0, loc),
		time.Date(2025, 4, 10, 0, 0, 0, 0, loc),
		time.Date(2025, 4, 10, 23, 59, 59, 0, loc),
		time.Date(2025, 4, 11, 0, 0, 0, 0, loc),
	} {
		f.repo.store[uuid.New()] = &Appointment{Date: d}
	}

	n, err := f.svc.CountOnDay(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 appointments today, got %d", n)
	}
}

func TestDayBounds(t *testing.T) {
	now := time.Date(2025, 12, 31, 18, 45, 0, 0, time.UTC)
	from, to := DayBounds(now)
	if !from.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", from)
	}
	if !to.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end %v", to)
	}
}

func TestAppointmentView_ProviderFallback(t *testing.T) {
	blank := " "
	name := "Dr. House"
	if v := (&Appointment{}).View(); v.ProviderName != NotAvailable {
		t.Errorf("expected N/A, got %q", v.ProviderName)
	}
	if v := (&Appointment{ProviderName: &blank}).View(); v.ProviderName != NotAvailable {
		t.Errorf("expected N/A for blank name, got %q", v.ProviderName)
	}
	if v := (&Appointment{ProviderName: &name}).View(); v.ProviderName != name {
		t.Errorf("expected %q, got %q", name, v.ProviderName)
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("arrived"); err != nil || s != StatusArrived {
		t.Errorf("expected ARRIVED, got %q %v", s, err)
	}
	if _, err := ParseStatus("NO_SHOW"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
