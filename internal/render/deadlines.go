package render

import (
	"github.com/a-h/templ"

	"resource_hub/internal/board"
	"resource_hub/internal/domain"
)

// DeadlinesPage renders the deadline tracker. Countdown elements are updated
// by the page script from the countdown stream.
func (r *Renderer) DeadlinesPage(view board.DeadlineView) templ.Component {
	cards := make([]deadlineCard, len(view.Items))
	for i, item := range view.Items {
		cards[i] = r.deadlineCard(item, countdownAt(view, i))
	}

	var empty string
	if view.Empty() {
		empty = "No deadlines here. Enjoy the break!"
		if view.SourceFailed {
			empty = "Deadlines could not be loaded right now."
		}
	}

	return deadlineBoard(
		r.page("Deadlines", "/deadlines"),
		view.Stats,
		tabLinks("/deadlines", view.Tabs, view.Filter),
		"/deadlines/stream?filter="+queryEscape(view.Filter),
		cards,
		empty,
	)
}

func (r *Renderer) deadlineCard(item domain.DeadlineItem, countdown board.Countdown) deadlineCard {
	return deadlineCard{
		DOMID:        cardID("deadline", item.ID),
		Title:        item.Title,
		Subject:      string(item.Subject),
		SubjectIcon:  subjectIcon(item.Subject),
		Priority:     string(item.Priority),
		PriorityIcon: priorityIcon(item.Priority),
		Description:  item.Description,
		Due:          DueDate(item.DueDate, r.location),
		Expired:      item.IsExpired,
		CountdownID:  cardID("countdown", item.ID),
		Countdown:    countdown,
		Urgent:       countdown.Urgent && !countdown.Expired,
		SubmitURL:    item.SubmissionLink,
	}
}

func countdownAt(view board.DeadlineView, i int) board.Countdown {
	if i < len(view.Countdowns) {
		return view.Countdowns[i]
	}
	item := view.Items[i]
	return board.CountdownFor(item.ID, item.DueDate, view.Now)
}
