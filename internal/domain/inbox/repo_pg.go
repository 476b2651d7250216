package inbox

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicboard/clinicboard/internal/platform/db"
)

type messageRepoPG struct{ pool *pgxpool.Pool }

func NewMessageRepoPG(pool *pgxpool.Pool) MessageRepository {
	return &messageRepoPG{pool: pool}
}

func (r *messageRepoPG) conn(ctx context.Context) db.Querier {
	return db.From(ctx, r.pool)
}

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO message (id, sender_id, recipient_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING timestamp`,
		m.ID, m.SenderID, m.RecipientID, m.Content).Scan(&m.Timestamp)
	return db.Classify(err, "message")
}

func (r *messageRepoPG) ListRecent(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.id, m.sender_id, m.recipient_id, m.content, m.timestamp,
			s.name, s.role, rc.name, rc.role
		FROM (
			SELECT * FROM message ORDER BY timestamp DESC, id DESC LIMIT $1
		) m
		JOIN app_user s ON s.id = m.sender_id
		JOIN app_user rc ON rc.id = m.recipient_id
		ORDER BY m.timestamp ASC, m.id ASC`, limit)
	if err != nil {
		return nil, db.Classify(err, "message")
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var m Message
		sender, recipient := &Participant{}, &Participant{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Timestamp,
			&sender.Name, &sender.Role, &recipient.Name, &recipient.Role); err != nil {
			return nil, db.Classify(err, "message")
		}
		sender.ID, recipient.ID = m.SenderID, m.RecipientID
		m.Sender, m.Recipient = sender, recipient
		out = append(out, &m)
	}
	return out, db.Classify(rows.Err(), "message")
}
