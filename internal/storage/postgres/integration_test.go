//go:build integration

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"resource_hub/internal/domain"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_sync_state.up.sql"),
			filepath.Join(migrationsPath, "002_create_notifications.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM announcements")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM notification_log")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sync_state")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestSyncStateStore_GetNew() {
	store := NewSyncStateStore(s.db)

	state, err := store.Get(s.ctx, domain.CollectionNews, "json")
	s.NoError(err)
	s.NotNil(state)
	s.Equal("news", state.Collection)
	s.Equal("json", state.SourceID)
	s.True(state.LastSyncedAt.IsZero())
	s.Equal(int64(0), state.TotalLoads)
}

func (s *PostgresIntegrationSuite) TestSyncStateStore_UpdateAndGet() {
	store := NewSyncStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	state := &domain.SyncState{
		Collection:   "deadlines",
		SourceID:     "github",
		LastSyncedAt: now,
		LastLoaded:   7,
		LastDropped:  1,
		TotalLoads:   3,
	}
	s.NoError(store.Update(s.ctx, state))

	retrieved, err := store.Get(s.ctx, domain.CollectionDeadlines, "github")
	s.NoError(err)
	s.Equal(int64(7), retrieved.LastLoaded)
	s.Equal(int64(1), retrieved.LastDropped)
	s.Equal(int64(3), retrieved.TotalLoads)
	s.False(retrieved.SourceFailed)
	s.WithinDuration(now, retrieved.LastSyncedAt, time.Second)
}

func (s *PostgresIntegrationSuite) TestSyncStateStore_CollectionsAreSeparate() {
	store := NewSyncStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	s.NoError(store.Update(s.ctx, &domain.SyncState{
		Collection: "news", SourceID: "json", LastSyncedAt: now, LastLoaded: 4, TotalLoads: 1,
	}))
	s.NoError(store.Update(s.ctx, &domain.SyncState{
		Collection: "deadlines", SourceID: "json", LastSyncedAt: now, SourceFailed: true, TotalLoads: 1,
	}))
	s.NoError(store.Update(s.ctx, &domain.SyncState{
		Collection: "news", SourceID: "json", LastSyncedAt: now, LastLoaded: 5, TotalLoads: 2,
	}))

	news, err := store.Get(s.ctx, domain.CollectionNews, "json")
	s.NoError(err)
	s.Equal(int64(5), news.LastLoaded)
	s.Equal(int64(2), news.TotalLoads)

	deadlines, err := store.Get(s.ctx, domain.CollectionDeadlines, "json")
	s.NoError(err)
	s.True(deadlines.SourceFailed)
}

func (s *PostgresIntegrationSuite) TestAnnouncementStore() {
	store := NewAnnouncementStore(s.db)

	announced, err := store.Announced(s.ctx, []string{"exam-schedule"})
	s.NoError(err)
	s.Empty(announced)

	s.NoError(store.MarkAnnounced(s.ctx, "exam-schedule"))
	s.NoError(store.MarkAnnounced(s.ctx, "exam-schedule"))

	announced, err = store.Announced(s.ctx, []string{"exam-schedule", "holiday"})
	s.NoError(err)
	s.Equal(map[string]bool{"exam-schedule": true}, announced)
}

func (s *PostgresIntegrationSuite) TestNotificationLogStore_RecordAndRecent() {
	store := NewNotificationLogStore(s.db)
	failure := "Invalid app_id"

	first := &domain.NotificationLogEntry{
		Origin: domain.OriginReminder, Title: "⏰ Deadline Reminder: Calculus", Message: "Quiz is due in 5 hours!",
		Success: true, Recipients: 12,
	}
	s.NoError(store.Record(s.ctx, first))
	s.Greater(first.ID, int64(0))
	s.False(first.CreatedAt.IsZero())

	second := &domain.NotificationLogEntry{
		Origin: domain.OriginRelayPrefix + "vercel", Title: "Hi", Message: "there", Error: &failure,
	}
	s.NoError(store.Record(s.ctx, second))

	entries, err := store.Recent(s.ctx, 10)
	s.NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(second.ID, entries[0].ID)
	s.Require().NotNil(entries[0].Error)
	s.Equal("Invalid app_id", *entries[0].Error)
	s.Equal(12, entries[1].Recipients)

	limited, err := store.Recent(s.ctx, 1)
	s.NoError(err)
	s.Len(limited, 1)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	store := NewSyncStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		return store.Update(ctx, &domain.SyncState{Collection: "news", SourceID: "json", LastSyncedAt: now, TotalLoads: 1})
	})
	s.NoError(err)

	state, err := store.Get(s.ctx, domain.CollectionNews, "json")
	s.NoError(err)
	s.Equal(int64(1), state.TotalLoads)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	store := NewSyncStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := store.Update(ctx, &domain.SyncState{Collection: "news", SourceID: "json", LastSyncedAt: now, TotalLoads: 1}); err != nil {
			return err
		}
		return errors.New("boom")
	})
	s.Error(err)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM sync_state"))
	s.Equal(0, count)
}
