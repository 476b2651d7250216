package inbox

import "context"

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// ListRecent returns the newest limit messages with both participants,
	// oldest first.
	ListRecent(ctx context.Context, limit int) ([]*Message, error)
}
