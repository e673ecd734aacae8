// Package content loads the news and deadline collections from a content source.
package content

import (
	"context"
	"log/slog"
	"time"

	"resource_hub/internal/board"
	"resource_hub/internal/domain"
	"resource_hub/internal/status"
)

// Source delivers the raw records of a collection.
type Source interface {
	ID() string
	Name() string
	Fetch(ctx context.Context, collection domain.Collection) (*domain.FetchResult, error)
}

type Loader struct {
	source   Source
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// NewLoader creates a loader reading from source. Dates without a zone are
// read in location.
func NewLoader(source Source, location *time.Location, logger *slog.Logger) *Loader {
	if location == nil {
		location = time.UTC
	}
	return &Loader{
		source:   source,
		location: location,
		now:      time.Now,
		logger:   logger.With("component", "loader", "source", source.ID()),
	}
}

// SourceID names the source the loader reads from.
func (l *Loader) SourceID() string {
	return l.source.ID()
}

// News loads, normalizes and sorts the news collection. A failing source
// yields an empty collection with SourceFailed set.
func (l *Loader) News(ctx context.Context) ([]domain.NewsItem, domain.LoadStats) {
	start := time.Now()
	now := l.now()

	records, stats := l.fetch(ctx, domain.CollectionNews)

	items := make([]domain.NewsItem, 0, len(records))
	for _, rec := range records {
		item, err := l.normalizeNews(rec, now)
		if err != nil {
			l.logger.Warn("dropping news record", "id", rec.ID, "error", err)
			stats.Dropped++
			continue
		}
		items = append(items, status.ApplyNews(item, now))
	}

	board.SortNews(items)

	stats.Loaded = len(items)
	stats.Duration = time.Since(start)
	l.logStats(stats)

	return items, stats
}

// Deadlines loads, normalizes and sorts the deadline collection. A failing
// source yields an empty collection with SourceFailed set.
func (l *Loader) Deadlines(ctx context.Context) ([]domain.DeadlineItem, domain.LoadStats) {
	start := time.Now()
	now := l.now()

	records, stats := l.fetch(ctx, domain.CollectionDeadlines)

	items := make([]domain.DeadlineItem, 0, len(records))
	for _, rec := range records {
		item, err := l.normalizeDeadline(rec, now)
		if err != nil {
			l.logger.Warn("dropping deadline record", "id", rec.ID, "error", err)
			stats.Dropped++
			continue
		}
		items = append(items, status.ApplyDeadline(item, now))
	}

	board.SortDeadlines(items)

	stats.Loaded = len(items)
	stats.Duration = time.Since(start)
	l.logStats(stats)

	return items, stats
}

func (l *Loader) fetch(ctx context.Context, collection domain.Collection) ([]domain.RawRecord, domain.LoadStats) {
	stats := domain.LoadStats{
		Collection: collection,
		SourceID:   l.source.ID(),
	}

	result, err := l.source.Fetch(ctx, collection)
	if err != nil {
		l.logger.Error("failed to fetch collection, showing empty state",
			"collection", collection,
			"error", err,
		)
		stats.SourceFailed = true
		return nil, stats
	}

	stats.Fetched = len(result.Records) + result.Dropped
	stats.FailedFiles = result.FailedFiles
	stats.Dropped = result.Dropped
	return result.Records, stats
}

func (l *Loader) logStats(stats domain.LoadStats) {
	l.logger.Info("collection loaded",
		"collection", stats.Collection,
		"fetched", stats.Fetched,
		"loaded", stats.Loaded,
		"dropped", stats.Dropped,
		"failed_files", stats.FailedFiles,
		"source_failed", stats.SourceFailed,
		"duration", stats.Duration,
	)
}
