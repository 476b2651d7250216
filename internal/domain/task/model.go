package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/pkg/isotime"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", apperr.Validation("status", "status must be one of: PENDING IN_PROGRESS COMPLETED")
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Task maps to the task table. AssigneeName is filled by list queries.
type Task struct {
	ID           uuid.UUID  `db:"id"`
	Description  string     `db:"description"`
	AssignedToID uuid.UUID  `db:"assigned_to_id"`
	Status       Status     `db:"status"`
	DueDate      *time.Time `db:"due_date"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`

	AssigneeName *string `db:"-"`
}

// CreateTaskInput; DueDate is optional, YYYY-MM-DD or RFC 3339.
type CreateTaskInput struct {
	Description  string    `json:"description" validate:"notblank,max=2000"`
	AssignedToID uuid.UUID `json:"assignedToId" validate:"required"`
	DueDate      *string   `json:"dueDate"`
}

type UpdateStatusInput struct {
	Status Status `json:"status" validate:"required"`
}

const UnknownUser = "Unknown User"

type AssigneeView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaskView struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	AssignedToID string       `json:"assignedToId"`
	AssignedTo   AssigneeView `json:"assignedTo"`
	Status       Status       `json:"status"`
	DueDate      *string      `json:"dueDate"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

func (t *Task) View() TaskView {
	name := UnknownUser
	if t.AssigneeName != nil && strings.TrimSpace(*t.AssigneeName) != "" {
		name = *t.AssigneeName
	}
	return TaskView{
		ID:           t.ID.String(),
		Description:  t.Description,
		AssignedToID: t.AssignedToID.String(),
		AssignedTo:   AssigneeView{ID: t.AssignedToID.String(), Name: name},
		Status:       t.Status,
		DueDate:      isotime.FormatPtr(t.DueDate),
		CreatedAt:    isotime.Format(t.CreatedAt),
		UpdatedAt:    isotime.Format(t.UpdatedAt),
	}
}

func Views(list []*Task) []TaskView {
	out := make([]TaskView, 0, len(list))
	for _, t := range list {
		out = append(out, t.View())
	}
	return out
}
