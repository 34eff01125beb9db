package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

const notificationsSchema = `
	CREATE TABLE IF NOT EXISTS notifications (
		id         UUID PRIMARY KEY,
		session_id TEXT,
		level      TEXT NOT NULL,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		read_at    TIMESTAMPTZ
	)`

// NotificationRepository persists notifications consumed from the queue.
type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, notificationsSchema); err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

// Save inserts n. Redelivered messages are ignored.
func (r *NotificationRepository) Save(ctx context.Context, n entity.Notification) error {
	query := `
		INSERT INTO notifications (id, session_id, level, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, n.ID, nullString(n.SessionID), string(n.Level), n.Message, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("save notification %s: %w", n.ID, err)
	}
	return nil
}

// List returns the newest notifications first. Unread only when unread is set.
func (r *NotificationRepository) List(ctx context.Context, limit int, unread bool) ([]entity.Notification, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	query := `
		SELECT id, COALESCE(session_id, ''), level, message, created_at
		FROM notifications
		WHERE ($2 = FALSE OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit, unread)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []entity.Notification{}
	for rows.Next() {
		var (
			n     entity.Notification
			level string
		)
		if err := rows.Scan(&n.ID, &n.SessionID, &level, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Level = entity.NotificationLevel(level)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags the given notifications as read and returns how many changed.
func (r *NotificationRepository) MarkRead(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return 0, fmt.Errorf("mark read %q: %w", id, ErrInvalidID)
		}
	}
	query := `UPDATE notifications SET read_at = NOW() WHERE id = ANY($1::uuid[]) AND read_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return res.RowsAffected()
}

var ErrInvalidID = errors.New("invalid notification id")

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
