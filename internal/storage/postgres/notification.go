package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"resource_hub/internal/domain"
)

const defaultRecentLimit = 50

// NotificationLogStore keeps one row per dispatched push notification.
type NotificationLogStore struct {
	db *sqlx.DB
}

func NewNotificationLogStore(db *sqlx.DB) *NotificationLogStore {
	return &NotificationLogStore{db: db}
}

func (s *NotificationLogStore) Record(ctx context.Context, entry *domain.NotificationLogEntry) error {
	query := `
		INSERT INTO notification_log (origin, title, message, url, success, recipients, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		entry.Origin,
		entry.Title,
		entry.Message,
		entry.URL,
		entry.Success,
		entry.Recipients,
		entry.Error,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// Recent returns the newest entries first.
func (s *NotificationLogStore) Recent(ctx context.Context, limit int) ([]domain.NotificationLogEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `
		SELECT id, origin, title, message, url, success, recipients, error, created_at
		FROM notification_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	entries := []domain.NotificationLogEntry{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &entries, query, limit)
	return entries, err
}
