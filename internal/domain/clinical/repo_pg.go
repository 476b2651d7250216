package clinical

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/db"
)

type noteRepoPG struct{ pool *pgxpool.Pool }

func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

func (r *noteRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

const noteSelect = `
	SELECT n.id, n.patient_id, n.author_id, n.type, n.content, n.created_at,
		p.first_name || ' ' || p.last_name, u.name
	FROM clinical_note n
	JOIN patient p ON p.id = n.patient_id
	LEFT JOIN app_user u ON u.id = n.author_id`

func (r *noteRepoPG) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinical_note (id, patient_id, author_id, type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		n.ID, n.PatientID, n.AuthorID, n.Type, n.Content).Scan(&n.CreatedAt)
	return db.Classify(err, "clinical note")
}

func (r *noteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	var n Note
	err := r.conn(ctx).QueryRow(ctx, noteSelect+` WHERE n.id = $1`, id).Scan(
		&n.ID, &n.PatientID, &n.AuthorID, &n.Type, &n.Content, &n.CreatedAt, &n.PatientName, &n.AuthorName)
	if err != nil {
		return nil, db.ClassifyID(err, "clinical note", id.String())
	}
	return &n, nil
}

func (r *noteRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx, noteSelect+` WHERE n.patient_id = $1 ORDER BY n.created_at DESC`, patientID)
	if err != nil {
		return nil, db.Classify(err, "clinical note")
	}
	defer rows.Close()

	var out []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.PatientID, &n.AuthorID, &n.Type, &n.Content, &n.CreatedAt,
			&n.PatientName, &n.AuthorName); err != nil {
			return nil, db.Classify(err, "clinical note")
		}
		out = append(out, &n)
	}
	return out, db.Classify(rows.Err(), "clinical note")
}
