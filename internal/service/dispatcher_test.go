package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"resource_hub/internal/domain"
	"resource_hub/internal/service/mocks"
)

type DispatcherTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	notifier   *mocks.MockNotifier
	log        *mocks.MockNotificationLog
	dispatcher *Dispatcher
}

func (s *DispatcherTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.log = mocks.NewMockNotificationLog(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.dispatcher = NewDispatcher(s.notifier, s.log, logger)
}

func (s *DispatcherTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

var testNotification = domain.Notification{Title: "Exam", Message: "Tomorrow", URL: "https://hub.example.com/news"}

func (s *DispatcherTestSuite) TestSend_RecordsSuccess() {
	ctx := context.Background()

	s.notifier.EXPECT().Send(gomock.Any(), testNotification).
		Return(&domain.NotificationResult{ID: "n-1", Recipients: 12}, nil)
	s.log.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.NotificationLogEntry) error {
			s.Equal("relay:vercel", entry.Origin)
			s.Equal("Exam", entry.Title)
			s.True(entry.Success)
			s.Equal(12, entry.Recipients)
			s.Nil(entry.Error)
			return nil
		})

	result, err := s.dispatcher.Send(ctx, "relay:vercel", testNotification)

	s.Require().NoError(err)
	s.Equal(12, result.Recipients)
}

func (s *DispatcherTestSuite) TestSend_RecordsFailure() {
	ctx := context.Background()
	sendErr := errors.New("connection refused")

	s.notifier.EXPECT().Send(gomock.Any(), testNotification).Return(nil, sendErr)
	s.log.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *domain.NotificationLogEntry) error {
			s.False(entry.Success)
			s.Require().NotNil(entry.Error)
			s.Equal("connection refused", *entry.Error)
			return nil
		})

	_, err := s.dispatcher.Send(ctx, domain.OriginReminder, testNotification)

	s.ErrorIs(err, sendErr)
}

func (s *DispatcherTestSuite) TestSend_LogFailureDoesNotFailSend() {
	ctx := context.Background()

	s.notifier.EXPECT().Send(gomock.Any(), testNotification).
		Return(&domain.NotificationResult{Recipients: 1}, nil)
	s.log.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

	_, err := s.dispatcher.Send(ctx, domain.OriginAnnouncement, testNotification)

	s.NoError(err)
}

func (s *DispatcherTestSuite) TestSend_Disabled() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	disabled := NewDispatcher(nil, s.log, logger)

	s.False(disabled.Enabled())
	_, err := disabled.Send(context.Background(), domain.OriginReminder, testNotification)
	s.ErrorIs(err, ErrNotificationsDisabled)

	var missing *Dispatcher
	s.False(missing.Enabled())
}
