package board

import "resource_hub/internal/domain"

type DeadlineStats struct {
	HighPriority int `json:"highPriority"`
	Upcoming     int `json:"upcoming"`
	Total        int `json:"total"`
}

// Stats counts open high-priority deadlines, open deadlines and all deadlines.
func Stats(items []domain.DeadlineItem) DeadlineStats {
	stats := DeadlineStats{Total: len(items)}
	for _, item := range items {
		if item.IsExpired {
			continue
		}
		stats.Upcoming++
		if item.Priority == domain.PriorityHigh {
			stats.HighPriority++
		}
	}
	return stats
}
