// Package board filters, sorts and summarizes the news and deadline boards.
package board

import (
	"sort"

	"resource_hub/internal/domain"
)

// SortNews orders news newest first.
func SortNews(items []domain.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}

// SortDeadlines orders deadlines soonest first.
func SortDeadlines(items []domain.DeadlineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DueDate.Before(items[j].DueDate)
	})
}
