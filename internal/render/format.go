package render

import (
	"fmt"
	"strings"
	"time"

	"resource_hub/internal/domain"
)

// NewsDate formats a news date relative to now in calendar days, switching
// to a calendar date after a week.
func NewsDate(date, now time.Time, loc *time.Location) string {
	days := calendarDays(date.In(loc), now.In(loc))
	if days < 0 {
		days = -days
	}

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return date.In(loc).Format("January 2, 2006")
	}
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

func DueDate(due time.Time, loc *time.Location) string {
	return due.In(loc).Format("Monday, January 2, 2006 at 03:04 PM")
}

// CategoryClass turns a category into its badge class, e.g. "general-update".
func CategoryClass(c domain.Category) string {
	return strings.ReplaceAll(strings.ToLower(string(c)), " ", "-")
}

var categoryIcons = map[domain.Category]string{
	domain.CategoryGeneral:    "fa-info-circle",
	domain.CategoryUrgent:     "fa-exclamation-triangle",
	domain.CategoryExam:       "fa-clipboard-list",
	domain.CategoryAssignment: "fa-tasks",
}

var subjectIcons = map[domain.Subject]string{
	domain.SubjectAppliedPhysics: "fa-atom",
	domain.SubjectICT:            "fa-laptop-code",
	domain.SubjectProgramming:    "fa-code",
	domain.SubjectEnglish:        "fa-book-open",
	domain.SubjectCalculus:       "fa-square-root-alt",
	domain.SubjectIslamiat:       "fa-mosque",
}

var priorityIcons = map[domain.Priority]string{
	domain.PriorityHigh:   "fa-exclamation-circle",
	domain.PriorityMedium: "fa-exclamation-triangle",
	domain.PriorityLow:    "fa-info-circle",
}

func categoryIcon(c domain.Category) string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return "fa-circle"
}

func subjectIcon(s domain.Subject) string {
	if icon, ok := subjectIcons[s]; ok {
		return icon
	}
	return "fa-book"
}

func priorityIcon(p domain.Priority) string {
	if icon, ok := priorityIcons[p]; ok {
		return icon
	}
	return "fa-circle"
}
