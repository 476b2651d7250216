package task

import (
	"context"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	// List returns every task with its assignee name, newest first.
	List(ctx context.Context) ([]*Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Task, error)
}
