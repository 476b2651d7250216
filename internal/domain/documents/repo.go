package documents

import (
	"context"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	// Create inserts d; the caller assigns ID and ObjectKey.
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// ListByPatient returns newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error)
}
