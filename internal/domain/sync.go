package domain

import "time"

// LoadStats holds statistics about loading one collection.
type LoadStats struct {
	Collection   Collection    `json:"collection"`
	SourceID     string        `json:"source"`
	Fetched      int           `json:"fetched"`
	Loaded       int           `json:"loaded"`
	Dropped      int           `json:"dropped"`
	FailedFiles  int           `json:"failedFiles"`
	SourceFailed bool          `json:"sourceFailed"`
	Duration     time.Duration `json:"duration"`
}

// RefreshStats aggregates one refresh of every collection.
type RefreshStats struct {
	News          LoadStats `json:"news"`
	Deadlines     LoadStats `json:"deadlines"`
	Announced     int       `json:"announced"`
	AnnounceFails int       `json:"announceFailures"`
}

type SyncState struct {
	ID           int64     `db:"id"`
	Collection   string    `db:"collection"`
	SourceID     string    `db:"source_id"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	LastLoaded   int64     `db:"last_loaded"`
	LastDropped  int64     `db:"last_dropped"`
	SourceFailed bool      `db:"source_failed"`
	TotalLoads   int64     `db:"total_loads"`
}
