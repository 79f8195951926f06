package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Rakabidaasta/npc-hackaton/internal/model"
	"github.com/Rakabidaasta/npc-hackaton/internal/repository"
)

// MessageStore implements repository.MessageRepository on the shared
// connection.
type MessageStore struct {
	conn *sql.DB
}

// compile-time check that *MessageStore implements repository.MessageRepository
var _ repository.MessageRepository = (*MessageStore)(nil)

// Create inserts a new message, generating the ID and CreatedAt here.
func (s *MessageStore) Create(ctx context.Context, msg *model.Message) error {
	msg.ID = xid.New().String()
	msg.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO messages (id, user_id, text, created_at)
		 VALUES (?, ?, ?, ?)`,
		msg.ID,
		msg.UserID,
		msg.Text,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting message (userID=%s): %w", msg.UserID, err)
	}

	return nil
}

// ListRecent returns up to limit messages ordered newest first. The chat
// view reverses them into chronological order before rendering.
//
// Ties on created_at are broken by id; xid is time-ordered, so insertion
// order wins even within the same timestamp.
func (s *MessageStore) ListRecent(ctx context.Context, limit int) ([]model.Message, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, user_id, text, created_at
		 FROM messages
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recent messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating message rows: %w", err)
	}

	return messages, nil
}
