package documents

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/db"
)

type documentRepoPG struct{ pool *pgxpool.Pool }

func NewDocumentRepoPG(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepoPG{pool: pool}
}

func (r *documentRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

const docCols = `id, patient_id, file_name, content_type, size_bytes, object_key, uploaded_by, created_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.PatientID, &d.FileName, &d.ContentType, &d.SizeBytes, &d.ObjectKey, &d.UploadedBy, &d.CreatedAt)
	return &d, err
}

func (r *documentRepoPG) Create(ctx context.Context, d *Document) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO document (id, patient_id, file_name, content_type, size_bytes, object_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		d.ID, d.PatientID, d.FileName, d.ContentType, d.SizeBytes, d.ObjectKey, d.UploadedBy).Scan(&d.CreatedAt)
	return db.Classify(err, "document")
}

func (r *documentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := scanDocument(r.conn(ctx).QueryRow(ctx, `SELECT `+docCols+` FROM document WHERE id = $1`, id))
	if err != nil {
		return nil, db.ClassifyID(err, "document", id.String())
	}
	return d, nil
}

func (r *documentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Document, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+docCols+` FROM document WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, db.Classify(err, "document")
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, db.Classify(err, "document")
		}
		out = append(out, d)
	}
	return out, db.Classify(rows.Err(), "document")
}
