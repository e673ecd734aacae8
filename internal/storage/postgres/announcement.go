package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AnnouncementStore remembers which news items were already pushed.
type AnnouncementStore struct {
	db *sqlx.DB
}

func NewAnnouncementStore(db *sqlx.DB) *AnnouncementStore {
	return &AnnouncementStore{db: db}
}

// Announced returns the subset of ids that were announced before.
func (s *AnnouncementStore) Announced(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(ids) == 0 {
		return result, nil
	}

	var found []string
	query := `SELECT news_id FROM announcements WHERE news_id = ANY($1)`
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &found, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

func (s *AnnouncementStore) MarkAnnounced(ctx context.Context, id string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO announcements (news_id) VALUES ($1) ON CONFLICT DO NOTHING",
		id,
	)
	return err
}
