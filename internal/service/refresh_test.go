package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"resource_hub/internal/domain"
	"resource_hub/internal/service/mocks"
	"resource_hub/internal/sse"
	"resource_hub/internal/storage/bolt"
)

type RefreshServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	loader        *mocks.MockLoader
	syncState     *mocks.MockSyncStateStore
	txManager     *mocks.MockTransactionManager
	announcements *mocks.MockAnnouncementStore
	notifier      *mocks.MockNotifier
	notifyLog     *mocks.MockNotificationLog
	events        *mocks.MockEventPublisher

	service *RefreshService
	now     time.Time
	logger  *slog.Logger
}

func (s *RefreshServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.loader = mocks.NewMockLoader(s.ctrl)
	s.syncState = mocks.NewMockSyncStateStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.announcements = mocks.NewMockAnnouncementStore(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.notifyLog = mocks.NewMockNotificationLog(s.ctrl)
	s.events = mocks.NewMockEventPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)

	s.loader.EXPECT().SourceID().Return("json").AnyTimes()

	s.service = NewRefreshService(
		s.loader,
		s.syncState,
		s.txManager,
		s.announcements,
		NewDispatcher(s.notifier, s.notifyLog, s.logger),
		s.events,
		s.logger,
		RefreshConfig{NewsURL: "https://hub.example.com/news"},
	)
	s.service.now = func() time.Time { return s.now }
}

func (s *RefreshServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestRefreshServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RefreshServiceTestSuite))
}

func (s *RefreshServiceTestSuite) newsFixture() []domain.NewsItem {
	return []domain.NewsItem{
		{ID: "exam", Title: "Mid-Term Schedule", Category: domain.CategoryExam, Date: s.now.Add(-time.Hour), SendNotification: true},
		{ID: "quiet", Title: "Library hours", Category: domain.CategoryGeneral, Date: s.now.Add(-2 * time.Hour)},
		{ID: "old", Title: "Orientation", Category: domain.CategoryGeneral, Date: s.now.AddDate(0, 0, -40), SendNotification: true, IsArchived: true},
	}
}

func (s *RefreshServiceTestSuite) deadlinesFixture() []domain.DeadlineItem {
	return []domain.DeadlineItem{
		{ID: "quiz", Title: "Quiz 2", Subject: domain.SubjectCalculus, DueDate: s.now.Add(5 * time.Hour), Priority: domain.PriorityHigh},
	}
}

func (s *RefreshServiceTestSuite) expectLoad(news []domain.NewsItem, deadlines []domain.DeadlineItem, newsFailed bool) {
	s.loader.EXPECT().News(gomock.Any()).Return(news, domain.LoadStats{
		Collection: domain.CollectionNews, SourceID: "json", Fetched: len(news), Loaded: len(news), SourceFailed: newsFailed,
	})
	s.loader.EXPECT().Deadlines(gomock.Any()).Return(deadlines, domain.LoadStats{
		Collection: domain.CollectionDeadlines, SourceID: "json", Fetched: len(deadlines), Loaded: len(deadlines),
	})
	s.events.EXPECT().Publish(sse.TopicContent, sse.Event{Type: sse.EventContentRefreshed})
}

func (s *RefreshServiceTestSuite) expectSyncState() {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.syncState.EXPECT().Get(gomock.Any(), domain.CollectionNews, "json").
		Return(&domain.SyncState{Collection: "news", SourceID: "json", TotalLoads: 2}, nil)
	s.syncState.EXPECT().Get(gomock.Any(), domain.CollectionDeadlines, "json").
		Return(&domain.SyncState{Collection: "deadlines", SourceID: "json"}, nil)
	s.syncState.EXPECT().Update(gomock.Any(), gomock.Any()).Times(2).Return(nil)
}

func (s *RefreshServiceTestSuite) TestRefresh_PublishesSnapshotAndAnnounces() {
	ctx := context.Background()
	s.expectLoad(s.newsFixture(), s.deadlinesFixture(), false)

	s.announcements.EXPECT().Announced(ctx, []string{"exam"}).Return(map[string]bool{}, nil)
	s.notifier.EXPECT().Send(ctx, domain.Notification{
		Title:   "📢 Exam",
		Message: "Mid-Term Schedule",
		URL:     "https://hub.example.com/news",
	}).Return(&domain.NotificationResult{ID: "n-1", Recipients: 30}, nil)
	s.notifyLog.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.NotificationLogEntry) error {
			s.Equal(domain.OriginAnnouncement, entry.Origin)
			s.True(entry.Success)
			s.Equal(30, entry.Recipients)
			s.Nil(entry.Error)
			return nil
		},
	)
	s.announcements.EXPECT().MarkAnnounced(ctx, "exam").Return(nil)
	s.expectSyncState()

	stats, err := s.service.Refresh(ctx)

	s.NoError(err)
	s.Equal(3, stats.News.Loaded)
	s.Equal(1, stats.Deadlines.Loaded)
	s.Equal(1, stats.Announced)
	s.Equal(0, stats.AnnounceFails)

	snap := s.service.Snapshot()
	s.Len(snap.News, 3)
	s.Len(snap.Deadlines, 1)
	s.False(snap.NewsFailed)
	s.Equal(s.now, snap.LoadedAt)
}

func (s *RefreshServiceTestSuite) TestRefresh_SkipsAlreadyAnnounced() {
	ctx := context.Background()
	s.expectLoad(s.newsFixture(), nil, false)

	s.announcements.EXPECT().Announced(ctx, []string{"exam"}).Return(map[string]bool{"exam": true}, nil)
	s.expectSyncState()

	stats, err := s.service.Refresh(ctx)

	s.NoError(err)
	s.Equal(0, stats.Announced)
}

func (s *RefreshServiceTestSuite) TestRefresh_FailedAnnouncementIsNotMarked() {
	ctx := context.Background()
	s.expectLoad(s.newsFixture(), nil, false)

	s.announcements.EXPECT().Announced(ctx, []string{"exam"}).Return(map[string]bool{}, nil)
	s.notifier.EXPECT().Send(ctx, gomock.Any()).Return(nil, errors.New("provider down"))
	s.notifyLog.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.NotificationLogEntry) error {
			s.False(entry.Success)
			s.Require().NotNil(entry.Error)
			s.Equal("provider down", *entry.Error)
			return nil
		},
	)
	s.expectSyncState()

	stats, err := s.service.Refresh(ctx)

	s.NoError(err)
	s.Equal(0, stats.Announced)
	s.Equal(1, stats.AnnounceFails)
}

func (s *RefreshServiceTestSuite) TestRefresh_AnnouncementStoreErrorSkipsAnnouncing() {
	ctx := context.Background()
	s.expectLoad(s.newsFixture(), nil, false)

	s.announcements.EXPECT().Announced(ctx, []string{"exam"}).Return(nil, errors.New("db down"))
	s.expectSyncState()

	stats, err := s.service.Refresh(ctx)

	s.NoError(err)
	s.Equal(0, stats.Announced)
}

func (s *RefreshServiceTestSuite) TestRefresh_SourceFailure() {
	ctx := context.Background()
	s.expectLoad([]domain.NewsItem{}, s.deadlinesFixture(), true)

	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.syncState.EXPECT().Get(gomock.Any(), domain.CollectionNews, "json").
		Return(&domain.SyncState{}, nil)
	s.syncState.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, state *domain.SyncState) error {
			s.Equal("news", state.Collection)
			s.True(state.SourceFailed)
			s.Equal(int64(1), state.TotalLoads)
			s.Equal(s.now, state.LastSyncedAt)
			return nil
		},
	)
	s.syncState.EXPECT().Get(gomock.Any(), domain.CollectionDeadlines, "json").
		Return(&domain.SyncState{}, nil)
	s.syncState.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	stats, err := s.service.Refresh(ctx)

	s.NoError(err)
	s.True(stats.News.SourceFailed)
	s.True(s.service.Snapshot().NewsFailed)
	s.Empty(s.service.Snapshot().News)
}

func (s *RefreshServiceTestSuite) TestRefresh_SyncStateErrorKeepsSnapshot() {
	ctx := context.Background()
	s.expectLoad(nil, s.deadlinesFixture(), false)

	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.syncState.EXPECT().Get(gomock.Any(), domain.CollectionNews, "json").Return(nil, errors.New("db down"))

	_, err := s.service.Refresh(ctx)

	s.Error(err)
	s.Len(s.service.Snapshot().Deadlines, 1)
}

func (s *RefreshServiceTestSuite) TestSnapshot_EmptyBeforeFirstRefresh() {
	snap := s.service.Snapshot()
	s.NotNil(snap.News)
	s.NotNil(snap.Deadlines)
	s.True(snap.LoadedAt.IsZero())
}

func (s *RefreshServiceTestSuite) TestRefresh_CancelledKeepsPreviousSnapshot() {
	service := NewRefreshService(s.loader, nil, nil, nil, nil, s.events, s.logger, RefreshConfig{})
	service.now = func() time.Time { return s.now }

	s.expectLoad(s.newsFixture(), s.deadlinesFixture(), false)
	_, err := service.Refresh(context.Background())
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.loader.EXPECT().News(gomock.Any()).Return([]domain.NewsItem{}, domain.LoadStats{
		Collection: domain.CollectionNews, SourceID: "json", SourceFailed: true,
	})
	s.loader.EXPECT().Deadlines(gomock.Any()).Return([]domain.DeadlineItem{}, domain.LoadStats{
		Collection: domain.CollectionDeadlines, SourceID: "json", SourceFailed: true,
	})

	_, err = service.Refresh(ctx)

	s.ErrorIs(err, context.Canceled)
	snap := service.Snapshot()
	s.Len(snap.News, 3)
	s.Len(snap.Deadlines, 1)
	s.False(snap.NewsFailed)
	s.False(snap.DeadlinesFailed)
	s.Equal(s.now, snap.LoadedAt)
}

func (s *RefreshServiceTestSuite) TestRefresh_CancelledSkipsAnnouncing() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.loader.EXPECT().News(gomock.Any()).Return(s.newsFixture(), domain.LoadStats{Collection: domain.CollectionNews})
	s.loader.EXPECT().Deadlines(gomock.Any()).Return(nil, domain.LoadStats{Collection: domain.CollectionDeadlines})

	stats, err := s.service.Refresh(ctx)

	s.ErrorIs(err, context.Canceled)
	s.Equal(0, stats.Announced)
	s.True(s.service.Snapshot().LoadedAt.IsZero())
}

func (s *RefreshServiceTestSuite) TestRefresh_WithoutAnnouncementStoreSendsNothing() {
	ctx := context.Background()
	service := NewRefreshService(s.loader, nil, nil, nil, NewDispatcher(s.notifier, nil, s.logger), nil, s.logger, RefreshConfig{})

	s.loader.EXPECT().News(gomock.Any()).Return(s.newsFixture(), domain.LoadStats{Collection: domain.CollectionNews})
	s.loader.EXPECT().Deadlines(gomock.Any()).Return(nil, domain.LoadStats{Collection: domain.CollectionDeadlines})

	stats, err := service.Refresh(ctx)

	s.NoError(err)
	s.Equal(0, stats.Announced)
	s.Len(service.Snapshot().News, 3)
}

func (s *RefreshServiceTestSuite) TestRefresh_AnnouncementsSurviveRestart() {
	ctx := context.Background()
	db, err := bolt.Open(filepath.Join(s.T().TempDir(), "hub.db"))
	s.Require().NoError(err)
	defer db.Close()

	s.loader.EXPECT().News(gomock.Any()).Return(s.newsFixture(), domain.LoadStats{Collection: domain.CollectionNews}).Times(2)
	s.loader.EXPECT().Deadlines(gomock.Any()).Return(nil, domain.LoadStats{Collection: domain.CollectionDeadlines}).Times(2)
	s.notifier.EXPECT().Send(ctx, gomock.Any()).Return(&domain.NotificationResult{ID: "n-1"}, nil).Times(1)

	for _, want := range []int{1, 0} {
		service := NewRefreshService(s.loader, nil, nil, db.Announcements(), NewDispatcher(s.notifier, nil, s.logger), nil, s.logger, RefreshConfig{})
		stats, err := service.Refresh(ctx)
		s.Require().NoError(err)
		s.Equal(want, stats.Announced)
	}
}
