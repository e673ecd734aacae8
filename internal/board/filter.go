package board

import (
	"errors"
	"fmt"

	"resource_hub/internal/domain"
)

// ErrUnknownFilter is returned for a tag outside the board's tab set.
var ErrUnknownFilter = errors.New("unknown filter")

const (
	FilterAll      = "all"
	FilterArchived = "archived"
	FilterExpired  = "expired"
)

// NewsTabs returns the news tab set in display order.
func NewsTabs() []string {
	tabs := []string{FilterAll}
	for _, c := range domain.Categories {
		tabs = append(tabs, string(c))
	}
	return append(tabs, FilterArchived)
}

// DeadlineTabs returns the deadline tab set in display order.
func DeadlineTabs() []string {
	tabs := []string{FilterAll}
	for _, s := range domain.Subjects {
		tabs = append(tabs, string(s))
	}
	return append(tabs, FilterExpired)
}

// ParseNewsFilter validates tag against the news tabs. Empty means all.
func ParseNewsFilter(tag string) (string, error) {
	return parseFilter(tag, NewsTabs())
}

// ParseDeadlineFilter validates tag against the deadline tabs. Empty means all.
func ParseDeadlineFilter(tag string) (string, error) {
	return parseFilter(tag, DeadlineTabs())
}

func parseFilter(tag string, tabs []string) (string, error) {
	if tag == "" {
		return FilterAll, nil
	}
	for _, t := range tabs {
		if t == tag {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFilter, tag)
}

// FilterNews returns the items visible under tag. "all" and category tags
// only show active news; "archived" only shows archived news.
func FilterNews(items []domain.NewsItem, tag string) []domain.NewsItem {
	filtered := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		var keep bool
		switch tag {
		case FilterAll:
			keep = !item.IsArchived
		case FilterArchived:
			keep = item.IsArchived
		default:
			keep = !item.IsArchived && string(item.Category) == tag
		}
		if keep {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterDeadlines returns the items visible under tag. "all" and subject tags
// only show open deadlines; "expired" only shows expired ones.
func FilterDeadlines(items []domain.DeadlineItem, tag string) []domain.DeadlineItem {
	filtered := make([]domain.DeadlineItem, 0, len(items))
	for _, item := range items {
		var keep bool
		switch tag {
		case FilterAll:
			keep = !item.IsExpired
		case FilterExpired:
			keep = item.IsExpired
		default:
			keep = !item.IsExpired && string(item.Subject) == tag
		}
		if keep {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
