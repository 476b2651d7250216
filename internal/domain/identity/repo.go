package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	// List returns every user ordered by name.
	List(ctx context.Context) ([]*User, error)
	CountByRole(ctx context.Context, role Role) (int, error)
	// ListByRole returns up to limit users with role, ordered by name.
	// A non-positive limit returns all of them.
	ListByRole(ctx context.Context, role Role, limit int) ([]*User, error)
}
