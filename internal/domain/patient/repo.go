package patient

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID loads the patient without history.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// Update applies the non-nil changes and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, ch PatientChanges) (*Patient, error)
	// Search matches term case-insensitively against first name, last name
	// and MRN; an empty term matches everyone. Each patient carries at most
	// its latest history entry. Newest patients first.
	Search(ctx context.Context, term string) ([]*Patient, error)
	// Recent returns up to limit patients, newest first, each with its
	// latest history entry. A non-empty status keeps only patients with at
	// least one history entry in that status.
	Recent(ctx context.Context, status HistoryStatus, limit int) ([]*Patient, error)
	Count(ctx context.Context) (int, error)
	// ListByLastName returns every patient ordered by last name.
	ListByLastName(ctx context.Context) ([]*Patient, error)
	// DeleteDependents removes the patient's appointments, medical history,
	// clinical notes and documents, in that order, and returns the object
	// keys of the removed documents.
	DeleteDependents(ctx context.Context, id uuid.UUID) ([]string, error)
	// Delete removes the patient row; a missing row is a not-found error.
	Delete(ctx context.Context, id uuid.UUID) error
}

type HistoryRepository interface {
	Create(ctx context.Context, h *MedicalHistory) error
	// ListByPatient returns entries newest first by diagnosis date.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error)
	CountByStatus(ctx context.Context, status HistoryStatus) (int, error)
}
