package service

import (
	"context"
	"errors"
	"log/slog"

	"resource_hub/internal/domain"
)

// ErrNotificationsDisabled is returned when no notifier is configured.
var ErrNotificationsDisabled = errors.New("notifications are disabled")

// Dispatcher sends notifications and records every attempt in the log.
type Dispatcher struct {
	notifier Notifier
	log      NotificationLog
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. notifier and log may be nil.
func NewDispatcher(notifier Notifier, log NotificationLog, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		log:      log,
		logger:   logger.With("component", "dispatcher"),
	}
}

func (d *Dispatcher) Enabled() bool {
	return d != nil && d.notifier != nil
}

// Send delivers n and logs the outcome under origin. A failure to write the
// log never fails the send.
func (d *Dispatcher) Send(ctx context.Context, origin string, n domain.Notification) (*domain.NotificationResult, error) {
	if !d.Enabled() {
		return nil, ErrNotificationsDisabled
	}

	result, err := d.notifier.Send(ctx, n)
	d.record(ctx, origin, n, result, err)
	return result, err
}

func (d *Dispatcher) record(ctx context.Context, origin string, n domain.Notification, result *domain.NotificationResult, sendErr error) {
	if d.log == nil {
		return
	}

	entry := &domain.NotificationLogEntry{
		Origin:  origin,
		Title:   n.Title,
		Message: n.Message,
		URL:     n.URL,
		Success: sendErr == nil,
	}
	if result != nil {
		entry.Recipients = result.Recipients
	}
	if sendErr != nil {
		msg := sendErr.Error()
		entry.Error = &msg
	}

	if err := d.log.Record(context.WithoutCancel(ctx), entry); err != nil {
		d.logger.Error("failed to record notification", "origin", origin, "error", err)
	}
}
