package inbox

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/validate"
	"github.com/clinicboard/clinicboard/pkg/pagination"
)

// UserChecker reports a not-found error for unknown users.
type UserChecker interface {
	Exists(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	messages MessageRepository
	users    UserChecker
}

func NewService(messages MessageRepository, users UserChecker) *Service {
	return &Service{messages: messages, users: users}
}

// ListMessages returns at most MaxLimit of the newest messages in
// ascending timestamp order. Non-positive limits use DefaultLimit.
func (s *Service) ListMessages(ctx context.Context, limit int) ([]*Message, error) {
	return s.messages.ListRecent(ctx, pagination.Clamp(limit, DefaultLimit, MaxLimit))
}

// SendMessage stores a message from caller to the recipient.
func (s *Service) SendMessage(ctx context.Context, caller auth.Caller, in SendMessageInput) (*Message, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := s.users.Exists(ctx, in.RecipientID); err != nil {
		return nil, err
	}

	m := &Message{
		SenderID:    caller.UserID,
		RecipientID: in.RecipientID,
		Content:     strings.TrimSpace(in.Content),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("message_id", m.ID.String()).
		Str("recipient_id", m.RecipientID.String()).
		Msg("message sent")
	return m, nil
}
