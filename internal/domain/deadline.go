package domain

import "time"

type Subject string

const (
	SubjectAppliedPhysics Subject = "Applied Physics"
	SubjectICT            Subject = "ICT"
	SubjectProgramming    Subject = "Programming"
	SubjectEnglish        Subject = "English"
	SubjectCalculus       Subject = "Calculus"
	SubjectIslamiat       Subject = "Islamiat"

	// SubjectGeneral is used for deadlines that name no subject.
	SubjectGeneral Subject = "General"
)

// Subjects lists the cohort's courses in tab order.
var Subjects = []Subject{
	SubjectAppliedPhysics,
	SubjectICT,
	SubjectProgramming,
	SubjectEnglish,
	SubjectCalculus,
	SubjectIslamiat,
}

func (s Subject) Valid() bool {
	for _, known := range Subjects {
		if s == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

type DeadlineItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Subject        Subject   `json:"subject"`
	DueDate        time.Time `json:"dueDate"`
	Description    string    `json:"description"`
	Priority       Priority  `json:"priority"`
	SubmissionLink string    `json:"submissionLink,omitempty"`
	IsExpired      bool      `json:"isExpired"`
	IsUrgent       bool      `json:"isUrgent"`
	ReminderSent   bool      `json:"-"`
}
