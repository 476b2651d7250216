package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

func (r *userRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

const userCols = `id, name, email, role, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO app_user (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Email, u.Role).Scan(&u.CreatedAt, &u.UpdatedAt)
	return db.Classify(err, "user")
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM app_user WHERE id = $1`, id))
	if err != nil {
		return nil, db.ClassifyID(err, "user", id.String())
	}
	return u, nil
}

func (r *userRepoPG) List(ctx context.Context) ([]*User, error) {
	return r.list(ctx, `SELECT `+userCols+` FROM app_user ORDER BY name ASC NULLS LAST, created_at ASC`)
}

func (r *userRepoPG) ListByRole(ctx context.Context, role Role, limit int) ([]*User, error) {
	q := `SELECT ` + userCols + ` FROM app_user WHERE role = $1 ORDER BY name ASC NULLS LAST, created_at ASC`
	if limit > 0 {
		return r.list(ctx, q+` LIMIT $2`, role, limit)
	}
	return r.list(ctx, q, role)
}

func (r *userRepoPG) list(ctx context.Context, q string, args ...interface{}) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, db.Classify(err, "user")
	}
	defer rows.Close()

	var items []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, db.Classify(err, "user")
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err, "user")
	}
	return items, nil
}

func (r *userRepoPG) CountByRole(ctx context.Context, role Role) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM app_user WHERE role = $1`, role).Scan(&n)
	return n, db.Classify(err, "user")
}
