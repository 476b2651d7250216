package clinical

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/validate"
)

// PatientChecker reports a not-found error for unknown patients.
type PatientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

// ProviderChecker reports whether a user may author notes.
type ProviderChecker interface {
	IsProvider(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	notes     NoteRepository
	patients  PatientChecker
	providers ProviderChecker
}

func NewService(notes NoteRepository, patients PatientChecker, providers ProviderChecker) *Service {
	return &Service{notes: notes, patients: patients, providers: providers}
}

// SaveClinicalNote stores a note written by a DOCTOR. The author defaults
// to the caller.
func (s *Service) SaveClinicalNote(ctx context.Context, caller auth.Caller, in SaveNoteInput) (*Note, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	author := caller.UserID
	if in.AuthorID != nil && *in.AuthorID != uuid.Nil {
		author = *in.AuthorID
	}
	if err := s.patients.Exists(ctx, in.PatientID); err != nil {
		return nil, err
	}
	ok, err := s.providers.IsProvider(ctx, author)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("authorId", "authorId must reference a user with role DOCTOR")
	}

	n := &Note{
		PatientID: in.PatientID,
		AuthorID:  author,
		Type:      strings.TrimSpace(in.Type),
		Content:   in.Content,
	}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("note_id", n.ID.String()).
		Str("patient_id", n.PatientID.String()).
		Str("type", n.Type).
		Msg("clinical note saved")
	return n, nil
}

func (s *Service) ListNotes(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	return s.notes.ListByPatient(ctx, patientID)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.notes.GetByID(ctx, id)
}

// RenderNotePDF returns the note as a PDF document.
func (s *Service) RenderNotePDF(ctx context.Context, id uuid.UUID) (*Note, []byte, error) {
	n, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, err := RenderPDF(n)
	if err != nil {
		return nil, nil, err
	}
	return n, doc, nil
}
