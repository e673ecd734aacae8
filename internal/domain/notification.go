package domain

import "time"

// Notification is a push message sent to every subscriber.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

type NotificationResult struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
}

const (
	OriginReminder     = "reminder"
	OriginAnnouncement = "announcement"
	OriginRelayPrefix  = "relay:"
)

type NotificationLogEntry struct {
	ID         int64     `db:"id" json:"id"`
	Origin     string    `db:"origin" json:"origin"`
	Title      string    `db:"title" json:"title"`
	Message    string    `db:"message" json:"message"`
	URL        string    `db:"url" json:"url"`
	Success    bool      `db:"success" json:"success"`
	Recipients int       `db:"recipients" json:"recipients"`
	Error      *string   `db:"error" json:"error,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
