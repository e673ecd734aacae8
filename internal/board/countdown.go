package board

import (
	"fmt"
	"time"

	"resource_hub/internal/domain"
	"resource_hub/internal/status"
)

// Countdown is the live time-left display of one deadline card.
type Countdown struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Expired bool   `json:"expired"`
	Urgent  bool   `json:"urgent"`
}

// CountdownFor formats the time left until due.
func CountdownFor(id string, due, now time.Time) Countdown {
	left := due.Sub(now)
	if left <= 0 {
		return Countdown{ID: id, Text: "Expired", Expired: true}
	}

	days := int(left / (24 * time.Hour))
	hours := int(left % (24 * time.Hour) / time.Hour)
	minutes := int(left % time.Hour / time.Minute)
	seconds := int(left % time.Minute / time.Second)

	var text string
	switch {
	case days > 0:
		text = fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		text = fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	default:
		text = fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return Countdown{
		ID:     id,
		Text:   text,
		Urgent: left < status.UrgentWithin,
	}
}

func Countdowns(items []domain.DeadlineItem, now time.Time) []Countdown {
	out := make([]Countdown, len(items))
	for i, item := range items {
		out[i] = CountdownFor(item.ID, item.DueDate, now)
	}
	return out
}
