package patient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/db"
)

// -- Patient Repository --

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

const patientCols = `p.id, p.first_name, p.last_name, p.date_of_birth, p.gender,
	p.medical_record_number, p.created_at, p.updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
		&p.MedicalRecordNumber, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (id, first_name, last_name, date_of_birth, gender, medical_record_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.MedicalRecordNumber,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return db.Classify(err, "patient")
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient p WHERE p.id = $1`, id))
	if err != nil {
		return nil, db.ClassifyID(err, "patient", id.String())
	}
	return p, nil
}

func (r *patientRepoPG) Update(ctx context.Context, id uuid.UUID, ch PatientChanges) (*Patient, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx, `
		UPDATE patient p SET
			first_name = COALESCE($2, p.first_name),
			last_name = COALESCE($3, p.last_name),
			date_of_birth = COALESCE($4, p.date_of_birth),
			gender = COALESCE($5, p.gender),
			updated_at = NOW()
		WHERE p.id = $1
		RETURNING `+patientCols,
		id, ch.FirstName, ch.LastName, ch.DateOfBirth, ch.Gender))
	if err != nil {
		return nil, db.ClassifyID(err, "patient", id.String())
	}
	return p, nil
}

// escapeLike makes LIKE metacharacters in term match literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

const latestHistoryJoin = `
		SELECT ` + patientCols + `,
			h.id, h.diagnosis, h.treatment, h.status, h.severity, h.diagnosis_date, h.created_at, h.updated_at
		FROM patient p
		LEFT JOIN LATERAL (
			SELECT mh.* FROM medical_history mh
			WHERE mh.patient_id = p.id
			ORDER BY mh.diagnosis_date DESC, mh.created_at DESC
			LIMIT 1
		) h ON TRUE`

func (r *patientRepoPG) Search(ctx context.Context, term string) ([]*Patient, error) {
	term = strings.TrimSpace(term)
	return r.listWithLatest(ctx, latestHistoryJoin+`
		WHERE $1 = ''
			OR p.first_name ILIKE '%' || $2 || '%' ESCAPE '\'
			OR p.last_name ILIKE '%' || $2 || '%' ESCAPE '\'
			OR p.medical_record_number ILIKE '%' || $2 || '%' ESCAPE '\'
		ORDER BY p.created_at DESC`,
		term, escapeLike(term))
}

func (r *patientRepoPG) Recent(ctx context.Context, status HistoryStatus, limit int) ([]*Patient, error) {
	return r.listWithLatest(ctx, latestHistoryJoin+`
		WHERE $1 = '' OR EXISTS (
			SELECT 1 FROM medical_history f WHERE f.patient_id = p.id AND f.status = $1
		)
		ORDER BY p.created_at DESC
		LIMIT $2`,
		string(status), limit)
}

// listWithLatest runs a query built on latestHistoryJoin.
func (r *patientRepoPG) listWithLatest(ctx context.Context, sql string, args ...interface{}) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "patient")
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		var (
			p          Patient
			hID        *uuid.UUID
			diagnosis  *string
			treatment  *string
			status     *string
			severity   *string
			diagnosed  *time.Time
			hCreatedAt *time.Time
			hUpdatedAt *time.Time
		)
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender,
			&p.MedicalRecordNumber, &p.CreatedAt, &p.UpdatedAt,
			&hID, &diagnosis, &treatment, &status, &severity, &diagnosed, &hCreatedAt, &hUpdatedAt); err != nil {
			return nil, db.Classify(err, "patient")
		}
		if hID != nil {
			p.History = []*MedicalHistory{{
				ID:            *hID,
				PatientID:     p.ID,
				Diagnosis:     *diagnosis,
				Treatment:     treatment,
				Status:        HistoryStatus(*status),
				Severity:      Severity(*severity),
				DiagnosisDate: *diagnosed,
				CreatedAt:     *hCreatedAt,
				UpdatedAt:     *hUpdatedAt,
			}}
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err, "patient")
	}
	return items, nil
}

func (r *patientRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&n)
	return n, db.Classify(err, "patient")
}

func (r *patientRepoPG) ListByLastName(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient p ORDER BY p.last_name ASC, p.first_name ASC`)
	if err != nil {
		return nil, db.Classify(err, "patient")
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, db.Classify(err, "patient")
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err, "patient")
	}
	return items, nil
}

func (r *patientRepoPG) DeleteDependents(ctx context.Context, id uuid.UUID) ([]string, error) {
	q := r.conn(ctx)
	for _, stmt := range []string{
		`DELETE FROM appointment WHERE patient_id = $1`,
		`DELETE FROM medical_history WHERE patient_id = $1`,
		`DELETE FROM clinical_note WHERE patient_id = $1`,
	} {
		if _, err := q.Exec(ctx, stmt, id); err != nil {
			return nil, db.Classify(err, "patient")
		}
	}

	rows, err := q.Query(ctx, `DELETE FROM document WHERE patient_id = $1 RETURNING object_key`, id)
	if err != nil {
		return nil, db.Classify(err, "document")
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, db.Classify(err, "document")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err, "document")
	}
	return keys, nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err, "patient")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient", id.String())
	}
	return nil
}

// -- Medical History Repository --

type historyRepoPG struct{ pool *pgxpool.Pool }

func NewHistoryRepoPG(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepoPG{pool: pool}
}

func (r *historyRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

const historyCols = `id, patient_id, diagnosis, treatment, status, severity, diagnosis_date, created_at, updated_at`

func (r *historyRepoPG) Create(ctx context.Context, h *MedicalHistory) error {
	h.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_history (id, patient_id, diagnosis, treatment, status, severity, diagnosis_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		h.ID, h.PatientID, h.Diagnosis, h.Treatment, h.Status, h.Severity, h.DiagnosisDate,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
	return db.Classify(err, "medical history")
}

func (r *historyRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicalHistory, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+historyCols+` FROM medical_history
		WHERE patient_id = $1 ORDER BY diagnosis_date DESC, created_at DESC`, patientID)
	if err != nil {
		return nil, db.Classify(err, "medical history")
	}
	defer rows.Close()

	var items []*MedicalHistory
	for rows.Next() {
		var h MedicalHistory
		if err := rows.Scan(&h.ID, &h.PatientID, &h.Diagnosis, &h.Treatment, &h.Status, &h.Severity,
			&h.DiagnosisDate, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, db.Classify(err, "medical history")
		}
		items = append(items, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err, "medical history")
	}
	return items, nil
}

func (r *historyRepoPG) CountByStatus(ctx context.Context, status HistoryStatus) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medical_history WHERE status = $1`, status).Scan(&n)
	return n, db.Classify(err, "medical history")
}
