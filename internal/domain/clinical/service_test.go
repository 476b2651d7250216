package clinical

import (
	"bytes"
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

type mockNoteRepo struct {
	store map[uuid.UUID]*Note
}

func (m *mockNoteRepo) Create(_ context.Context, n *Note) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now().Add(time.Duration(len(m.store)) * time.Second)
	m.store[n.ID] = n
	return nil
}

func (m *mockNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*Note, error) {
	n, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("clinical note", "")
	}
	return n, nil
}

func (m *mockNoteRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Note, error) {
	var out []*Note
	for _, n := range m.store {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
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
	repo      *mockNoteRepo
	patientID uuid.UUID
	doctor    auth.Caller
	nurse     auth.Caller
}

func newFixture() *fixture {
	f := &fixture{
		repo:      &mockNoteRepo{store: make(map[uuid.UUID]*Note)},
		patientID: uuid.New(),
		doctor:    auth.Caller{UserID: uuid.New(), Role: "DOCTOR"},
		nurse:     auth.Caller{UserID: uuid.New(), Role: "NURSE"},
	}
	f.svc = NewService(f.repo,
		mockPatients{f.patientID: true},
		mockProviders{f.doctor.UserID: true, f.nurse.UserID: false})
	return f
}

// -- Service Tests --

func TestSaveClinicalNote_AuthorDefaultsToCaller(t *testing.T) {
	f := newFixture()
	n, err := f.svc.SaveClinicalNote(context.Background(), f.doctor, SaveNoteInput{
		PatientID: f.patientID, Type: " SOAP ", Content: "S: cough\nO: afebrile",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.AuthorID != f.doctor.UserID {
		t.Errorf("expected author %s, got %s", f.doctor.UserID, n.AuthorID)
	}
	if n.Type != "SOAP" {
		t.Errorf("expected trimmed type, got %q", n.Type)
	}
}

func TestSaveClinicalNote_ExplicitAuthor(t *testing.T) {
	f := newFixture()
	author := f.doctor.UserID
	n, err := f.svc.SaveClinicalNote(context.Background(), f.nurse, SaveNoteInput{
		PatientID: f.patientID, AuthorID: &author, Type: "Progress", Content: "Stable.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.AuthorID != author {
		t.Errorf("expected author %s, got %s", author, n.AuthorID)
	}
}

func TestSaveClinicalNote_Errors(t *testing.T) {
	f := newFixture()
	tests := []struct {
		name   string
		caller auth.Caller
		in     SaveNoteInput
		kind   apperr.Kind
	}{
		{"no caller", auth.Caller{}, SaveNoteInput{PatientID: f.patientID, Type: "SOAP", Content: "x"}, apperr.KindValidation},
		{"missing patient", f.doctor, SaveNoteInput{Type: "SOAP", Content: "x"}, apperr.KindValidation},
		{"missing type", f.doctor, SaveNoteInput{PatientID: f.patientID, Content: "x"}, apperr.KindValidation},
		{"blank content", f.doctor, SaveNoteInput{PatientID: f.patientID, Type: "SOAP", Content: " "}, apperr.KindValidation},
		{"unknown patient", f.doctor, SaveNoteInput{PatientID: uuid.New(), Type: "SOAP", Content: "x"}, apperr.KindNotFound},
		{"author not a doctor", f.nurse, SaveNoteInput{PatientID: f.patientID, Type: "SOAP", Content: "x"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SaveClinicalNote(context.Background(), tt.caller, tt.in)
			if !apperr.Is(err, tt.kind) {
				t.Errorf("expected %s, got %v", tt.kind, err)
			}
		})
	}
	if len(f.repo.store) != 0 {
		t.Errorf("expected no notes stored, got %d", len(f.repo.store))
	}
}

func TestListNotes_NewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, content := range []string{"first", "second"} {
		if _, err := f.svc.SaveClinicalNote(ctx, f.doctor, SaveNoteInput{PatientID: f.patientID, Type: "Progress", Content: content}); err != nil {
			t.Fatal(err)
		}
	}
	notes, err := f.svc.ListNotes(ctx, f.patientID)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 || notes[0].Content != "second" {
		t.Errorf("expected newest first, got %+v", notes)
	}
	if _, err := f.svc.ListNotes(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found for unknown patient, got %v", err)
	}
}

func TestRenderNotePDF(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	n, _ := f.svc.SaveClinicalNote(ctx, f.doctor, SaveNoteInput{
		PatientID: f.patientID, Type: "SOAP", Content: strings.Repeat("Patient reports improvement. ", 200),
	})
	n.PatientName = "Jane Doe"

	got, doc, err := f.svc.RenderNotePDF(ctx, n.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != n.ID {
		t.Errorf("expected note %s, got %s", n.ID, got.ID)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", doc[:min(8, len(doc))])
	}
}

func TestRenderNotePDF_NotFound(t *testing.T) {
	f := newFixture()
	if _, _, err := f.svc.RenderNotePDF(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestNoteView_AuthorFallback(t *testing.T) {
	if v := (&Note{}).View(); v.AuthorName != UnnamedAuthor {
		t.Errorf("expected %q, got %q", UnnamedAuthor, v.AuthorName)
	}
}
