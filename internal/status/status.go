// Package status derives the time-relative flags of news and deadline records.
package status

import (
	"time"

	"resource_hub/internal/domain"
)

const (
	// ArchiveAfter is the retention window after which news is archived.
	ArchiveAfter = 30 * 24 * time.Hour
	// UrgentWithin marks deadlines due sooner than this as urgent.
	UrgentWithin = 24 * time.Hour
)

func Expired(due, now time.Time) bool {
	return due.Before(now)
}

func Archived(date, now time.Time) bool {
	return date.Before(now.Add(-ArchiveAfter))
}

func Urgent(due, now time.Time) bool {
	return !Expired(due, now) && due.Sub(now) < UrgentWithin
}

// ApplyNews returns a copy of item with IsArchived set for now.
func ApplyNews(item domain.NewsItem, now time.Time) domain.NewsItem {
	item.IsArchived = Archived(item.Date, now)
	return item
}

// ApplyDeadline returns a copy of item with IsExpired and IsUrgent set for now.
func ApplyDeadline(item domain.DeadlineItem, now time.Time) domain.DeadlineItem {
	item.IsExpired = Expired(item.DueDate, now)
	item.IsUrgent = Urgent(item.DueDate, now)
	return item
}

func ApplyNewsAll(items []domain.NewsItem, now time.Time) []domain.NewsItem {
	out := make([]domain.NewsItem, len(items))
	for i, item := range items {
		out[i] = ApplyNews(item, now)
	}
	return out
}

func ApplyDeadlineAll(items []domain.DeadlineItem, now time.Time) []domain.DeadlineItem {
	out := make([]domain.DeadlineItem, len(items))
	for i, item := range items {
		out[i] = ApplyDeadline(item, now)
	}
	return out
}
