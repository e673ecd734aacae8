package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"resource_hub/internal/domain"
	"resource_hub/internal/status"
)

// SnapshotSource provides the current deadlines.
type SnapshotSource interface {
	Snapshot() *Snapshot
}

type ReminderConfig struct {
	// URL is opened by reminder notifications.
	URL string
}

// ReminderService pushes one reminder per deadline once it is due within
// a day. Sent reminders are remembered for the life of the process.
type ReminderService struct {
	snapshots  SnapshotSource
	dispatcher *Dispatcher
	logger     *slog.Logger
	config     ReminderConfig
	now        func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewReminderService(snapshots SnapshotSource, dispatcher *Dispatcher, logger *slog.Logger, cfg ReminderConfig) *ReminderService {
	return &ReminderService{
		snapshots:  snapshots,
		dispatcher: dispatcher,
		logger:     logger.With("component", "reminders"),
		config:     cfg,
		now:        time.Now,
		sent:       make(map[string]time.Time),
	}
}

// Run checks the deadlines against the current time.
func (s *ReminderService) Run(ctx context.Context) error {
	_, err := s.Check(ctx, s.now())
	return err
}

// Check sends the reminders due at now and returns how many were sent.
func (s *ReminderService) Check(ctx context.Context, now time.Time) (int, error) {
	if !s.dispatcher.Enabled() {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(now)

	sent := 0
	for _, d := range s.due(now) {
		if d.ReminderSent {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		if _, err := s.dispatcher.Send(ctx, domain.OriginReminder, s.reminder(d, now)); err != nil {
			s.logger.Warn("reminder failed", "id", d.ID, "error", err)
			continue
		}

		s.sent[reminderKey(d)] = d.DueDate
		sent++
		s.logger.Info("reminder sent", "id", d.ID, "subject", d.Subject)
	}
	return sent, nil
}

// due returns copies of the deadlines inside the reminder window with
// ReminderSent set from the sent set. Callers hold s.mu.
func (s *ReminderService) due(now time.Time) []domain.DeadlineItem {
	var items []domain.DeadlineItem
	for _, d := range s.snapshots.Snapshot().Deadlines {
		if !dueWithinReminderWindow(d.DueDate, now) {
			continue
		}
		_, d.ReminderSent = s.sent[reminderKey(d)]
		items = append(items, d)
	}
	return items
}

func (s *ReminderService) reminder(d domain.DeadlineItem, now time.Time) domain.Notification {
	hours := int(d.DueDate.Sub(now) / time.Hour)
	return domain.Notification{
		Title:   fmt.Sprintf("⏰ Deadline Reminder: %s", d.Subject),
		Message: fmt.Sprintf("%s is due in %d hours! Don't forget to submit.", d.Title, hours),
		URL:     s.config.URL,
	}
}

// prune forgets reminders of deadlines that have passed.
func (s *ReminderService) prune(now time.Time) {
	for key, due := range s.sent {
		if status.Expired(due, now) {
			delete(s.sent, key)
		}
	}
}

func dueWithinReminderWindow(due, now time.Time) bool {
	return due.After(now) && !due.After(now.Add(status.UrgentWithin))
}

// reminderKey changes when a deadline is moved, so it is reminded again.
func reminderKey(d domain.DeadlineItem) string {
	return d.ID + "@" + d.DueDate.UTC().Format(time.RFC3339)
}
