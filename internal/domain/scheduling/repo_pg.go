package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/db"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

const apptCols = `id, patient_id, provider_id, date, status, reason, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.Date, &a.Status, &a.Reason, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (id, patient_id, provider_id, date, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.ProviderID, a.Date, a.Status, a.Reason).Scan(&a.CreatedAt, &a.UpdatedAt)
	return db.Classify(err, "appointment")
}

// joinedSelect carries the patient and provider display names.
const joinedSelect = `
	SELECT a.id, a.patient_id, a.provider_id, a.date, a.status, a.reason, a.created_at, a.updated_at,
		p.first_name || ' ' || p.last_name, u.name
	FROM appointment a
	JOIN patient p ON p.id = a.patient_id
	LEFT JOIN app_user u ON u.id = a.provider_id`

func scanJoined(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ProviderID, &a.Date, &a.Status, &a.Reason,
		&a.CreatedAt, &a.UpdatedAt, &a.PatientName, &a.ProviderName)
	return &a, err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanJoined(r.conn(ctx).QueryRow(ctx, joinedSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, db.ClassifyID(err, "appointment", id.String())
	}
	return a, nil
}

func (r *appointmentRepoPG) List(ctx context.Context) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, joinedSelect+` ORDER BY a.date DESC`)
	if err != nil {
		return nil, db.Classify(err, "appointment")
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanJoined(rows)
		if err != nil {
			return nil, db.Classify(err, "appointment")
		}
		out = append(out, a)
	}
	return out, db.Classify(rows.Err(), "appointment")
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx, `
		UPDATE appointment SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+apptCols, id, status))
	if err != nil {
		return nil, db.ClassifyID(err, "appointment", id.String())
	}
	return a, nil
}

func (r *appointmentRepoPG) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE date >= $1 AND date < $2`, from, to).Scan(&n)
	return n, db.Classify(err, "appointment")
}
