package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"resource_hub/internal/domain"
)

type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

func (s *SyncStateStore) Get(ctx context.Context, collection domain.Collection, sourceID string) (*domain.SyncState, error) {
	var state domain.SyncState
	query := `
		SELECT id, collection, source_id, last_synced_at, last_loaded, last_dropped, source_failed, total_loads
		FROM sync_state
		WHERE collection = $1 AND source_id = $2`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, string(collection), sourceID)
	if errors.Is(err, sql.ErrNoRows) {
		// Return empty state for collections never loaded
		return &domain.SyncState{
			Collection: string(collection),
			SourceID:   sourceID,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SyncStateStore) Update(ctx context.Context, state *domain.SyncState) error {
	query := `
		INSERT INTO sync_state (collection, source_id, last_synced_at, last_loaded, last_dropped, source_failed, total_loads)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (collection, source_id) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			last_loaded = EXCLUDED.last_loaded,
			last_dropped = EXCLUDED.last_dropped,
			source_failed = EXCLUDED.source_failed,
			total_loads = EXCLUDED.total_loads`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.Collection,
		state.SourceID,
		state.LastSyncedAt,
		state.LastLoaded,
		state.LastDropped,
		state.SourceFailed,
		state.TotalLoads,
	)
	return err
}
