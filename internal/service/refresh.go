package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"resource_hub/internal/domain"
	"resource_hub/internal/sse"
)

// Snapshot is the last loaded content. It is never mutated after it is
// published; status flags are as of LoadedAt.
type Snapshot struct {
	News            []domain.NewsItem
	Deadlines       []domain.DeadlineItem
	NewsFailed      bool
	DeadlinesFailed bool
	LoadedAt        time.Time
}

type RefreshConfig struct {
	// NewsURL is opened by announcement notifications.
	NewsURL string
}

// RefreshService reloads both collections, publishes the new snapshot and
// announces fresh news.
type RefreshService struct {
	loader        Loader
	syncState     SyncStateStore
	txManager     TransactionManager
	announcements AnnouncementStore
	dispatcher    *Dispatcher
	events        EventPublisher
	logger        *slog.Logger
	config        RefreshConfig

	now      func() time.Time
	snapshot atomic.Pointer[Snapshot]
	mu       sync.Mutex
}

// NewRefreshService wires a refresh service. Everything but loader may be
// nil, which disables the matching feature. News is only announced with an
// announcement store, so a restart cannot announce it twice.
func NewRefreshService(
	loader Loader,
	syncState SyncStateStore,
	txManager TransactionManager,
	announcements AnnouncementStore,
	dispatcher *Dispatcher,
	events EventPublisher,
	logger *slog.Logger,
	cfg RefreshConfig,
) *RefreshService {
	s := &RefreshService{
		loader:        loader,
		syncState:     syncState,
		txManager:     txManager,
		announcements: announcements,
		dispatcher:    dispatcher,
		events:        events,
		logger:        logger.With("component", "refresh", "source", loader.SourceID()),
		config:        cfg,
		now:           time.Now,
	}
	s.snapshot.Store(&Snapshot{
		News:      []domain.NewsItem{},
		Deadlines: []domain.DeadlineItem{},
	})
	return s
}

// Snapshot returns the last loaded content. Before the first refresh both
// collections are empty.
func (s *RefreshService) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Refresh reloads everything. Load failures degrade to empty collections.
// When ctx ends during the load the previous snapshot is kept and ctx's
// error is returned; otherwise the error only reports sync state failures.
func (s *RefreshService) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()
	s.logger.Info("starting refresh")

	news, newsStats := s.loader.News(ctx)
	deadlines, deadlineStats := s.loader.Deadlines(ctx)

	// A load cut short by the caller says nothing about the source.
	if err := ctx.Err(); err != nil {
		s.logger.Warn("refresh cancelled, keeping previous content", "error", err)
		return &domain.RefreshStats{News: newsStats, Deadlines: deadlineStats}, fmt.Errorf("refresh cancelled: %w", err)
	}

	s.snapshot.Store(&Snapshot{
		News:            news,
		Deadlines:       deadlines,
		NewsFailed:      newsStats.SourceFailed,
		DeadlinesFailed: deadlineStats.SourceFailed,
		LoadedAt:        s.now(),
	})

	if s.events != nil {
		s.events.Publish(sse.TopicContent, sse.Event{Type: sse.EventContentRefreshed})
	}

	stats := &domain.RefreshStats{
		News:      newsStats,
		Deadlines: deadlineStats,
	}

	stats.Announced, stats.AnnounceFails = s.announce(ctx, news)

	if err := s.updateSyncState(ctx, newsStats, deadlineStats); err != nil {
		return stats, fmt.Errorf("update sync state: %w", err)
	}

	s.logger.Info("refresh completed",
		"news", newsStats.Loaded,
		"deadlines", deadlineStats.Loaded,
		"announced", stats.Announced,
		"announce_failures", stats.AnnounceFails,
		"duration", time.Since(startTime),
	)

	return stats, nil
}

func (s *RefreshService) announce(ctx context.Context, news []domain.NewsItem) (int, int) {
	if !s.dispatcher.Enabled() || s.announcements == nil {
		return 0, 0
	}

	var candidates []domain.NewsItem
	for _, item := range news {
		if item.SendNotification && !item.IsArchived {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return 0, 0
	}

	ids := make([]string, len(candidates))
	for i, item := range candidates {
		ids[i] = item.ID
	}

	done, err := s.announcements.Announced(ctx, ids)
	if err != nil {
		// Without the store we cannot tell what was sent; try next time.
		s.logger.Error("failed to read announcements", "error", err)
		return 0, 0
	}

	sent, failed := 0, 0
	for _, item := range candidates {
		if done[item.ID] {
			continue
		}

		if _, err := s.dispatcher.Send(ctx, domain.OriginAnnouncement, announcement(item, s.config.NewsURL)); err != nil {
			s.logger.Warn("announcement failed", "id", item.ID, "error", err)
			failed++
			continue
		}

		if err := s.announcements.MarkAnnounced(ctx, item.ID); err != nil {
			s.logger.Error("failed to mark announcement", "id", item.ID, "error", err)
		}
		sent++
	}
	return sent, failed
}

func announcement(item domain.NewsItem, url string) domain.Notification {
	return domain.Notification{
		Title:   fmt.Sprintf("📢 %s", item.Category),
		Message: item.Title,
		URL:     url,
	}
}

func (s *RefreshService) updateSyncState(ctx context.Context, all ...domain.LoadStats) error {
	if s.syncState == nil || s.txManager == nil {
		return nil
	}

	now := s.now()
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, stats := range all {
			state, err := s.syncState.Get(txCtx, stats.Collection, stats.SourceID)
			if err != nil {
				return fmt.Errorf("get %s state: %w", stats.Collection, err)
			}

			state.Collection = string(stats.Collection)
			state.SourceID = stats.SourceID
			state.LastSyncedAt = now
			state.LastLoaded = int64(stats.Loaded)
			state.LastDropped = int64(stats.Dropped)
			state.SourceFailed = stats.SourceFailed
			state.TotalLoads++

			if err := s.syncState.Update(txCtx, state); err != nil {
				return fmt.Errorf("update %s state: %w", stats.Collection, err)
			}
		}
		return nil
	})
}

// Run refreshes once; it lets the scheduler drive the service.
func (s *RefreshService) Run(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	return err
}
