package content

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"

	"resource_hub/internal/domain"
)

var (
	errMissingTitle   = errors.New("missing title")
	errMissingDueDate = errors.New("missing due date")
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDate accepts the layouts written by the CMS and by hand. Values without
// a zone are read in loc.
func parseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (l *Loader) normalizeNews(rec domain.RawRecord, now time.Time) (domain.NewsItem, error) {
	title := strings.TrimSpace(rec.String("title"))
	if title == "" {
		return domain.NewsItem{}, errMissingTitle
	}

	date, ok := parseDate(rec.String("date"), l.location)
	if !ok {
		l.logger.Warn("unparseable news date, using load time",
			"id", rec.ID,
			"date", rec.String("date"),
		)
		date = now
	}

	category := domain.Category(strings.TrimSpace(rec.String("category")))
	if !category.Valid() {
		category = domain.CategoryGeneral
	}

	body := rec.Body
	if body == "" {
		body = rec.String("body")
	}

	id := rec.ID
	if id == "" {
		id = slugify(date.Format("2006-01-02") + "-" + title)
	}

	return domain.NewsItem{
		ID:               id,
		Title:            title,
		Date:             date,
		Category:         category,
		Body:             body,
		Featured:         rec.Bool("featured"),
		SendNotification: rec.Bool("sendNotification"),
	}, nil
}

func (l *Loader) normalizeDeadline(rec domain.RawRecord, now time.Time) (domain.DeadlineItem, error) {
	rawDue := rec.String("dueDate")
	if strings.TrimSpace(rawDue) == "" {
		rawDue = rec.String("date")
	}
	if strings.TrimSpace(rawDue) == "" {
		return domain.DeadlineItem{}, errMissingDueDate
	}

	due, ok := parseDate(rawDue, l.location)
	if !ok {
		l.logger.Warn("unparseable due date, using load time",
			"id", rec.ID,
			"due_date", rawDue,
		)
		due = now
	}

	title := strings.TrimSpace(rec.String("title"))
	if title == "" {
		title = "Untitled"
	}

	subject := domain.Subject(strings.TrimSpace(rec.String("subject")))
	switch {
	case subject == "":
		subject = domain.SubjectGeneral
	case subject != domain.SubjectGeneral && !subject.Valid():
		l.logger.Warn("unknown subject, deadline has no subject tab", "id", rec.ID, "subject", subject)
	}

	description := rec.Body
	if description == "" {
		description = rec.String("description")
	}

	priority := domain.Priority(strings.ToLower(strings.TrimSpace(rec.String("priority"))))
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}

	id := rec.ID
	if id == "" {
		id = slugify(string(subject) + "-" + title)
	}

	return domain.DeadlineItem{
		ID:             id,
		Title:          title,
		Subject:        subject,
		DueDate:        due,
		Description:    description,
		Priority:       priority,
		SubmissionLink: submissionLink(rec.String("submissionLink")),
	}, nil
}

// submissionLink keeps absolute http(s) links only.
func submissionLink(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}
