package patient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/validate"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// TxRunner runs fn in a single transaction carried by the context passed to
// fn, rolling back when fn fails.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// BlobDeleter removes stored document contents.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type Service struct {
	patients PatientRepository
	history  HistoryRepository
	runInTx  TxRunner
	blobs    BlobDeleter
	mrn      *MRNGenerator
	now      func() time.Time
}

func NewService(patients PatientRepository, history HistoryRepository, runInTx TxRunner) *Service {
	return &Service{
		patients: patients,
		history:  history,
		runInTx:  runInTx,
		mrn:      NewMRNGenerator(),
		now:      time.Now,
	}
}

// SetBlobStore makes DeletePatient remove document contents after the rows
// are gone.
func (s *Service) SetBlobStore(b BlobDeleter) {
	s.blobs = b
}

// Now is the clock used for age calculations.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) ListPatients(ctx context.Context, searchTerm string) ([]*Patient, error) {
	return s.patients.Search(ctx, searchTerm)
}

// GetPatient returns the patient with its full history.
func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.History, err = s.history.ListByPatient(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) CreatePatient(ctx context.Context, caller auth.Caller, in CreatePatientInput) (*Patient, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	dob, err := s.parseDOB(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	gender := in.Gender
	if gender == "" {
		gender = GenderUnknown
	}

	p := &Patient{
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		DateOfBirth:         dob,
		Gender:              gender,
		MedicalRecordNumber: s.mrn.Next(),
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("patient_id", p.ID.String()).
		Str("mrn", p.MedicalRecordNumber).
		Msg("patient created")
	return p, nil
}

func (s *Service) UpdatePatient(ctx context.Context, caller auth.Caller, id uuid.UUID, in UpdatePatientInput) (*Patient, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var ch PatientChanges
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		ch.FirstName = &v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		ch.LastName = &v
	}
	if in.DateOfBirth != nil {
		dob, err := s.parseDOB(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		ch.DateOfBirth = &dob
	}
	ch.Gender = in.Gender

	p, err := s.patients.Update(ctx, id, ch)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("patient_id", id.String()).
		Msg("patient updated")
	return p, nil
}

// DeletePatient removes the patient and every appointment, history entry,
// clinical note and document referencing it in one transaction. Nothing is
// removed unless all of it is. Document contents are deleted afterwards;
// failures there are logged and do not fail the call.
func (s *Service) DeletePatient(ctx context.Context, caller auth.Caller, id uuid.UUID) error {
	if err := caller.Validate(); err != nil {
		return err
	}

	var keys []string
	err := s.runInTx(ctx, func(ctx context.Context) error {
		var err error
		if keys, err = s.patients.DeleteDependents(ctx, id); err != nil {
			return err
		}
		return s.patients.Delete(ctx, id)
	})
	if err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			return apperr.Internal("failed to delete patient", err)
		}
		return err
	}

	logger := zerolog.Ctx(ctx)
	if s.blobs != nil {
		for _, key := range keys {
			if err := s.blobs.Delete(ctx, key); err != nil {
				logger.Warn().Err(err).Str("object_key", key).Msg("failed to remove document content")
			}
		}
	}

	logger.Info().
		Str("caller_id", caller.UserID.String()).
		Str("patient_id", id.String()).
		Int("documents", len(keys)).
		Msg("patient deleted")
	return nil
}

func (s *Service) AddMedicalHistory(ctx context.Context, caller auth.Caller, patientID uuid.UUID, in AddHistoryInput) (*MedicalHistory, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	diagnosed, err := isotime.Parse(in.DiagnosisDate)
	if err != nil {
		return nil, apperr.Validation("diagnosisDate", "diagnosisDate must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}

	h := &MedicalHistory{
		PatientID:     patientID,
		Diagnosis:     strings.TrimSpace(in.Diagnosis),
		Treatment:     in.Treatment,
		Status:        in.Status,
		Severity:      in.Severity,
		DiagnosisDate: diagnosed,
	}
	if err := s.history.Create(ctx, h); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("patient_id", patientID.String()).
		Str("status", string(h.Status)).
		Msg("medical history added")
	return h, nil
}

// Exists returns a not-found error when no patient has the given id.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.patients.GetByID(ctx, id)
	return err
}

func (s *Service) ListMedicalHistory(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.history.ListByPatient(ctx, patientID)
}

// ListPatientOptions returns picker entries ordered by last name.
func (s *Service) ListPatientOptions(ctx context.Context, withMRN bool) ([]Option, error) {
	patients, err := s.patients.ListByLastName(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(patients))
	for _, p := range patients {
		out = append(out, NewOption(p, withMRN))
	}
	return out, nil
}

func (s *Service) GetClinicalSummary(ctx context.Context, patientID uuid.UUID) (*ClinicalSummary, error) {
	p, err := s.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return NewClinicalSummary(p, s.now()), nil
}

func (s *Service) parseDOB(raw string) (time.Time, error) {
	dob, err := isotime.Parse(raw)
	if err != nil {
		return time.Time{}, apperr.Validation("dateOfBirth", "dateOfBirth must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if dob.After(s.now()) {
		return time.Time{}, apperr.Validation("dateOfBirth", "dateOfBirth cannot be in the future")
	}
	return dob, nil
}

// RecentPatients returns up to limit of the newest patients with their
// latest history entry, optionally restricted to patients with any history
// entry in status.
func (s *Service) RecentPatients(ctx context.Context, status HistoryStatus, limit int) ([]*Patient, error) {
	return s.patients.Recent(ctx, status, limit)
}

func (s *Service) CountPatients(ctx context.Context) (int, error) {
	return s.patients.Count(ctx)
}

func (s *Service) CountHistoryByStatus(ctx context.Context, status HistoryStatus) (int, error) {
	return s.history.CountByStatus(ctx, status)
}
