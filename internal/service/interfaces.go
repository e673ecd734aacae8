package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"resource_hub/internal/domain"
	"resource_hub/internal/sse"
)

type Loader interface {
	SourceID() string
	News(ctx context.Context) ([]domain.NewsItem, domain.LoadStats)
	Deadlines(ctx context.Context) ([]domain.DeadlineItem, domain.LoadStats)
}

type SyncStateStore interface {
	Get(ctx context.Context, collection domain.Collection, sourceID string) (*domain.SyncState, error)
	Update(ctx context.Context, state *domain.SyncState) error
}

type AnnouncementStore interface {
	Announced(ctx context.Context, ids []string) (map[string]bool, error)
	MarkAnnounced(ctx context.Context, id string) error
}

type NotificationLog interface {
	Record(ctx context.Context, entry *domain.NotificationLogEntry) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Notifier interface {
	Send(ctx context.Context, n domain.Notification) (*domain.NotificationResult, error)
}

type EventPublisher interface {
	Publish(topic string, ev sse.Event)
}
