package inbox

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicboard/clinicboard/pkg/isotime"
)

// Message maps to the message table. Messages are never edited or deleted.
type Message struct {
	ID          uuid.UUID `db:"id"`
	SenderID    uuid.UUID `db:"sender_id"`
	RecipientID uuid.UUID `db:"recipient_id"`
	Content     string    `db:"content"`
	Timestamp   time.Time `db:"timestamp"`

	Sender    *Participant `db:"-"`
	Recipient *Participant `db:"-"`
}

// Participant is the sender or recipient as loaded by list queries.
type Participant struct {
	ID   uuid.UUID
	Name *string
	Role string
}

const (
	DefaultLimit = 50
	MaxLimit     = 50
)

// UnknownUser stands in for a participant without a name.
const UnknownUser = "Unknown User"

type SendMessageInput struct {
	RecipientID uuid.UUID `json:"recipientId" validate:"required"`
	Content     string    `json:"content" validate:"notblank,max=5000"`
}

type ParticipantView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type MessageView struct {
	ID          string           `json:"id"`
	SenderID    string           `json:"senderId"`
	RecipientID string           `json:"recipientId"`
	Content     string           `json:"content"`
	Timestamp   string           `json:"timestamp"`
	Sender      *ParticipantView `json:"sender,omitempty"`
	Recipient   *ParticipantView `json:"recipient,omitempty"`
}

func participantView(p *Participant) *ParticipantView {
	if p == nil {
		return nil
	}
	name := UnknownUser
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		name = *p.Name
	}
	return &ParticipantView{ID: p.ID.String(), Name: name, Role: p.Role}
}

func (m *Message) View() MessageView {
	return MessageView{
		ID:          m.ID.String(),
		SenderID:    m.SenderID.String(),
		RecipientID: m.RecipientID.String(),
		Content:     m.Content,
		Timestamp:   isotime.Format(m.Timestamp),
		Sender:      participantView(m.Sender),
		Recipient:   participantView(m.Recipient),
	}
}

func Views(list []*Message) []MessageView {
	out := make([]MessageView, 0, len(list))
	for _, m := range list {
		out = append(out, m.View())
	}
	return out
}
