package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/db"
)

type taskRepoPG struct{ pool *pgxpool.Pool }

func NewTaskRepoPG(pool *pgxpool.Pool) TaskRepository {
	return &taskRepoPG{pool: pool}
}

func (r *taskRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

func (r *taskRepoPG) Create(ctx context.Context, t *Task) error {
	t.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO task (id, description, assigned_to_id, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		t.ID, t.Description, t.AssignedToID, t.Status, t.DueDate).Scan(&t.CreatedAt, &t.UpdatedAt)
	return db.Classify(err, "task")
}

func (r *taskRepoPG) List(ctx context.Context) ([]*Task, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT t.id, t.description, t.assigned_to_id, t.status, t.due_date, t.created_at, t.updated_at, u.name
		FROM task t
		LEFT JOIN app_user u ON u.id = t.assigned_to_id
		ORDER BY t.created_at DESC`)
	if err != nil {
		return nil, db.Classify(err, "task")
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Description, &t.AssignedToID, &t.Status, &t.DueDate,
			&t.CreatedAt, &t.UpdatedAt, &t.AssigneeName); err != nil {
			return nil, db.Classify(err, "task")
		}
		out = append(out, &t)
	}
	return out, db.Classify(rows.Err(), "task")
}

func (r *taskRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Task, error) {
	var t Task
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE task SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, description, assigned_to_id, status, due_date, created_at, updated_at`,
		id, status).Scan(&t.ID, &t.Description, &t.AssignedToID, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, db.ClassifyID(err, "task", id.String())
	}
	return &t, nil
}
