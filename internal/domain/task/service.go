package task

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/validate"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// UserChecker reports a not-found error for unknown users.
type UserChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	tasks TaskRepository
	users UserChecker
}

func NewService(tasks TaskRepository, users UserChecker) *Service {
	return &Service{tasks: tasks, users: users}
}

func (s *Service) ListTasks(ctx context.Context) ([]*Task, error) {
	return s.tasks.List(ctx)
}

// CreateTask stores a new PENDING task.
func (s *Service) CreateTask(ctx context.Context, caller auth.Caller, in CreateTaskInput) (*Task, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t := &Task{
		Description:  strings.TrimSpace(in.Description),
		AssignedToID: in.AssignedToID,
		Status:       StatusPending,
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		due, err := isotime.Parse(*in.DueDate)
		if err != nil {
			return nil, apperr.Validation("dueDate", "dueDate must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
		}
		t.DueDate = &due
	}
	if err := s.users.Exists(ctx, in.AssignedToID); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("task_id", t.ID.String()).
		Str("assigned_to_id", t.AssignedToID.String()).
		Msg("task created")
	return t, nil
}

// UpdateTaskStatus overwrites the status. There is no transition guard; a
// task may go straight from PENDING to COMPLETED or back.
func (s *Service) UpdateTaskStatus(ctx context.Context, caller auth.Caller, id uuid.UUID, in UpdateStatusInput) (*Task, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	t, err := s.tasks.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("task_id", id.String()).
		Str("status", string(t.Status)).
		Msg("task status updated")
	return t, nil
}
