package documents

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/blobstore"
)

// PatientChecker reports a not-found error for unknown patients.
type PatientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	docs     DocumentRepository
	blobs    blobstore.BlobStore
	patients PatientChecker
}

func NewService(docs DocumentRepository, blobs blobstore.BlobStore, patients PatientChecker) *Service {
	return &Service{docs: docs, blobs: blobs, patients: patients}
}

// UploadDocument stores the content and then the metadata row. When the row
// cannot be written the stored content is removed again.
func (s *Service) UploadDocument(ctx context.Context, caller auth.Caller, patientID uuid.UUID, up Upload, r io.Reader) (*Document, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	name := filepath.Base(strings.TrimSpace(up.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, apperr.Required("fileName")
	}
	if len(name) > 255 {
		return nil, apperr.Validation("fileName", "fileName must be at most 255 characters")
	}
	contentType := normalizeContentType(up.ContentType)
	if err := blobstore.CheckUpload(contentType, up.Size); err != nil {
		return nil, uploadError(err, contentType)
	}
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}

	id := uuid.New()
	d := &Document{
		ID:          id,
		PatientID:   patientID,
		FileName:    name,
		ContentType: contentType,
		SizeBytes:   up.Size,
		ObjectKey:   ObjectKey(patientID, id),
		UploadedBy:  caller.UserID,
	}
	if err := s.blobs.Put(ctx, d.ObjectKey, r, d.SizeBytes, d.ContentType); err != nil {
		return nil, uploadError(err, contentType)
	}
	logger := zerolog.Ctx(ctx)
	if err := s.docs.Create(ctx, d); err != nil {
		if derr := s.blobs.Delete(ctx, d.ObjectKey); derr != nil {
			logger.Warn().Err(derr).Str("object_key", d.ObjectKey).Msg("failed to remove orphaned document content")
		}
		return nil, err
	}

	logger.Info().
		Str("caller_id", caller.UserID.String()).
		Str("document_id", d.ID.String()).
		Str("patient_id", patientID.String()).
		Int64("size_bytes", d.SizeBytes).
		Msg("document uploaded")
	return d, nil
}

func (s *Service) ListDocuments(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	if err := s.patients.Exists(ctx, patientID); err != nil {
		return nil, err
	}
	return s.docs.ListByPatient(ctx, patientID)
}

// OpenDocument returns the metadata and a reader over the content. The
// caller closes the reader.
func (s *Service) OpenDocument(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error) {
	d, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.blobs.Get(ctx, d.ObjectKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			return nil, nil, apperr.NotFound("document content", "")
		}
		return nil, nil, apperr.Internal("failed to read document", err)
	}
	return d, rc, nil
}

func normalizeContentType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func uploadError(err error, contentType string) error {
	switch {
	case errors.Is(err, blobstore.ErrInvalidContentType):
		return apperr.Validation("file", "content type "+contentType+" is not allowed")
	case errors.Is(err, blobstore.ErrFileTooLarge):
		return apperr.Validation("file", "file exceeds the 25 MB limit")
	}
	return apperr.Internal("failed to store document", err)
}
