package render

import "resource_hub/internal/board"

// View models handed to the templ components. Everything is formatted
// before rendering so the templates only place values.

type navLink struct {
	Path   string
	Label  string
	Active bool
}

type pageMeta struct {
	Title     string
	SiteTitle string
	Footer    string
	Nav       []navLink
}

type tabLink struct {
	Label  string
	Tag    string
	Href   string
	Active bool
}

type newsCard struct {
	DOMID         string
	Title         string
	Date          string
	Category      string
	CategoryClass string
	Icon          string
	Featured      bool
	Archived      bool
	BodyHTML      string
}

type deadlineCard struct {
	DOMID        string
	Title        string
	Subject      string
	SubjectIcon  string
	Priority     string
	PriorityIcon string
	Description  string
	Due          string
	Expired      bool
	CountdownID  string
	Countdown    board.Countdown
	// Urgent is set for open deadlines only.
	Urgent    bool
	SubmitURL string
}

type subjectCard struct {
	Name        string
	Description string
	Icon        string
	Href        string
}
