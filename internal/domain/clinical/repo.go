package clinical

import (
	"context"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, n *Note) error
	// GetByID loads the note with patient and author names.
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	// ListByPatient returns the patient's notes with author names, newest
	// first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error)
}
