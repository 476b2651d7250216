package clinical

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// Note maps to the clinical_note table. Notes are immutable once saved.
// PatientName and AuthorName are filled by reads that join them.
type Note struct {
	ID        uuid.UUID `db:"id"`
	PatientID uuid.UUID `db:"patient_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Type      string    `db:"type"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`

	PatientName string  `db:"-"`
	AuthorName  *string `db:"-"`
}

// SaveNoteInput; AuthorID defaults to the caller when omitted.
type SaveNoteInput struct {
	PatientID uuid.UUID  `json:"patientId" validate:"required"`
	AuthorID  *uuid.UUID `json:"authorId"`
	Type      string     `json:"type" validate:"notblank,max=100"`
	Content   string     `json:"content" validate:"notblank,max=20000"`
}

// UnnamedAuthor stands in for an author without a name.
const UnnamedAuthor = "Unnamed Provider"

func (n *Note) authorName() string {
	if n.AuthorName != nil && strings.TrimSpace(*n.AuthorName) != "" {
		return *n.AuthorName
	}
	return UnnamedAuthor
}

type NoteView struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName,omitempty"`
	AuthorID    string `json:"authorId"`
	AuthorName  string `json:"authorName"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
}

func (n *Note) View() NoteView {
	return NoteView{
		ID:          n.ID.String(),
		PatientID:   n.PatientID.String(),
		PatientName: n.PatientName,
		AuthorID:    n.AuthorID.String(),
		AuthorName:  n.authorName(),
		Type:        n.Type,
		Content:     n.Content,
		CreatedAt:   isotime.Format(n.CreatedAt),
	}
}

func Views(notes []*Note) []NoteView {
	out := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.View())
	}
	return out
}
