package domain

import "time"

type Category string

const (
	CategoryGeneral    Category = "General Update"
	CategoryUrgent     Category = "Urgent"
	CategoryExam       Category = "Exam"
	CategoryAssignment Category = "Assignment"
)

// Categories lists the news categories in tab order.
var Categories = []Category{CategoryGeneral, CategoryUrgent, CategoryExam, CategoryAssignment}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type NewsItem struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Date             time.Time `json:"date"`
	Category         Category  `json:"category"`
	Body             string    `json:"body"`
	Featured         bool      `json:"featured"`
	SendNotification bool      `json:"sendNotification"`
	IsArchived       bool      `json:"isArchived"`
}
