package board

import (
	"time"

	"resource_hub/internal/domain"
	"resource_hub/internal/status"
)

// NewsView is everything the news page renders.
type NewsView struct {
	Items        []domain.NewsItem `json:"items"`
	Filter       string            `json:"filter"`
	Tabs         []string          `json:"tabs"`
	Now          time.Time         `json:"now"`
	SourceFailed bool              `json:"sourceFailed"`
}

func (v NewsView) Empty() bool {
	return len(v.Items) == 0
}

// DeadlineView is everything the deadlines page renders.
type DeadlineView struct {
	Items        []domain.DeadlineItem `json:"items"`
	Countdowns   []Countdown           `json:"countdowns"`
	Stats        DeadlineStats         `json:"stats"`
	Filter       string                `json:"filter"`
	Tabs         []string              `json:"tabs"`
	Now          time.Time             `json:"now"`
	SourceFailed bool                  `json:"sourceFailed"`
}

func (v DeadlineView) Empty() bool {
	return len(v.Items) == 0
}

// BuildNewsView derives status for now, sorts and filters items. The input
// slice is not modified.
func BuildNewsView(items []domain.NewsItem, filter string, now time.Time, sourceFailed bool) NewsView {
	current := status.ApplyNewsAll(items, now)
	SortNews(current)
	return NewsView{
		Items:        FilterNews(current, filter),
		Filter:       filter,
		Tabs:         NewsTabs(),
		Now:          now,
		SourceFailed: sourceFailed,
	}
}

// BuildDeadlineView derives status for now, sorts and filters items, and
// computes stats over the whole collection. The input slice is not modified.
func BuildDeadlineView(items []domain.DeadlineItem, filter string, now time.Time, sourceFailed bool) DeadlineView {
	current := status.ApplyDeadlineAll(items, now)
	SortDeadlines(current)
	visible := FilterDeadlines(current, filter)
	return DeadlineView{
		Items:        visible,
		Countdowns:   Countdowns(visible, now),
		Stats:        Stats(current),
		Filter:       filter,
		Tabs:         DeadlineTabs(),
		Now:          now,
		SourceFailed: sourceFailed,
	}
}
