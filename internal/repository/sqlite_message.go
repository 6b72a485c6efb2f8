package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/asanchezr/consultor/internal/db"
)

// SQLiteMessageRepo implements MessageRepo on SQLite.
type SQLiteMessageRepo struct {
	db db.DBTX
}

func NewSQLiteMessageRepo(dbtx db.DBTX) *SQLiteMessageRepo {
	return &SQLiteMessageRepo{db: dbtx}
}

func (r *SQLiteMessageRepo) Append(ctx context.Context, m *Message) error {
	query := `INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

func (r *SQLiteMessageRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]*Message, error) {
	query := `SELECT id, session_id, role, content, created_at
		FROM messages WHERE session_id = ? ORDER BY created_at, id`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages by session: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		var createdAtStr string
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return msgs, nil
}
