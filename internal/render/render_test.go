package render

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resource_hub/internal/board"
	"resource_hub/internal/domain"
)

var now = time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)

func newRenderer() *Renderer {
	return New(Site{
		Title:    "DUET Resource Hub",
		Subtitle: "Batch 25F | Cybersecurity A2",
		Subjects: []SubjectLink{
			{Name: "Calculus", Description: "Limits and derivatives", DriveURL: "https://drive.example.com/calc"},
			{Name: "Islamiat", Description: "Islamic studies"},
		},
	}, time.UTC)
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestNewsPage(t *testing.T) {
	items := []domain.NewsItem{
		{
			ID:       "exam",
			Title:    "Mid-Term <Schedule>",
			Date:     now.AddDate(0, 0, -2),
			Category: domain.CategoryExam,
			Body:     "**Important:** bring your ID\n\n<script>alert(1)</script>",
			Featured: true,
		},
	}
	view := board.BuildNewsView(items, board.FilterAll, now, false)

	html := renderString(t, newRenderer().NewsPage(view))

	assert.Contains(t, html, "Mid-Term &lt;Schedule&gt;")
	assert.Contains(t, html, "<strong>Important:</strong>")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "featured-badge")
	assert.Contains(t, html, "2 days ago")
	assert.Contains(t, html, `class="category-badge exam"`)
	assert.Contains(t, html, `class="filter-tab active" data-filter="all"`)
	assert.NotContains(t, html, "empty-state")
}

func TestNewsPage_EmptyStates(t *testing.T) {
	r := newRenderer()

	empty := renderString(t, r.NewsPage(board.BuildNewsView(nil, board.FilterArchived, now, false)))
	assert.Contains(t, empty, "No news in this category yet.")

	failed := renderString(t, r.NewsPage(board.BuildNewsView(nil, board.FilterAll, now, true)))
	assert.Contains(t, failed, "News could not be loaded right now.")
}

func TestDeadlinesPage(t *testing.T) {
	items := []domain.DeadlineItem{
		{
			ID:             "calc-quiz",
			Title:          "Quiz 2",
			Subject:        domain.SubjectCalculus,
			DueDate:        now.Add(5 * time.Hour),
			Priority:       domain.PriorityHigh,
			SubmissionLink: "https://classroom.example.com/quiz2",
		},
		{
			ID:       "ict-report",
			Title:    "Report",
			Subject:  domain.SubjectICT,
			DueDate:  now.AddDate(0, 0, 3),
			Priority: domain.PriorityLow,
		},
	}
	view := board.BuildDeadlineView(items, board.FilterAll, now, false)

	html := renderString(t, newRenderer().DeadlinesPage(view))

	assert.Contains(t, html, `<span id="highPriorityCount">1</span>`)
	assert.Contains(t, html, `<span id="upcomingCount">2</span>`)
	assert.Contains(t, html, `href="https://classroom.example.com/quiz2"`)
	assert.Contains(t, html, "No Submission Link")
	assert.Contains(t, html, `class="countdown-timer urgent" id="countdown-calc-quiz"`)
	assert.Contains(t, html, "5h 0m 0s")
	assert.Contains(t, html, "3d 0h 0m")
	assert.Contains(t, html, "Due: Thursday, October 16, 2025 at 05:00 PM")
	assert.Contains(t, html, `data-stream="/deadlines/stream?filter=all"`)
}

func TestDeadlinesPage_ExpiredCard(t *testing.T) {
	items := []domain.DeadlineItem{
		{
			ID:             "old",
			Title:          "Old lab",
			Subject:        domain.SubjectProgramming,
			DueDate:        now.Add(-time.Hour),
			Priority:       domain.PriorityMedium,
			SubmissionLink: "https://classroom.example.com/old",
		},
	}
	view := board.BuildDeadlineView(items, board.FilterExpired, now, false)

	html := renderString(t, newRenderer().DeadlinesPage(view))

	assert.Contains(t, html, `class="deadline-card priority-medium expired"`)
	assert.Contains(t, html, `class="submit-btn disabled"`)
	assert.Contains(t, html, "Expired")
}

func TestResourcesPage(t *testing.T) {
	html := renderString(t, newRenderer().ResourcesPage())

	assert.Contains(t, html, `href="/subjects/Calculus"`)
	assert.Contains(t, html, "Limits and derivatives")
	assert.Contains(t, html, "fa-mosque")
}

func TestSite_DriveLink(t *testing.T) {
	site := newRenderer().site

	link, ok := site.DriveLink("Calculus")
	assert.True(t, ok)
	assert.Equal(t, "https://drive.example.com/calc", link)

	_, ok = site.DriveLink("Islamiat")
	assert.False(t, ok)
}

func TestNewsDate(t *testing.T) {
	assert.Equal(t, "Today", NewsDate(now.Add(-time.Hour), now, time.UTC))
	assert.Equal(t, "Yesterday", NewsDate(now.Add(-20*time.Hour), now, time.UTC))
	assert.Equal(t, "3 days ago", NewsDate(now.AddDate(0, 0, -3), now, time.UTC))
	assert.Equal(t, "September 1, 2025", NewsDate(time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC), now, time.UTC))
}

func TestCategoryClass(t *testing.T) {
	assert.Equal(t, "general-update", CategoryClass(domain.CategoryGeneral))
	assert.Equal(t, "urgent", CategoryClass(domain.CategoryUrgent))
}

func TestLayout_MarksActiveNavLink(t *testing.T) {
	html := renderString(t, newRenderer().NewsPage(board.BuildNewsView(nil, board.FilterAll, now, false)))

	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>News | DUET Resource Hub</title>")
	assert.Contains(t, html, `<a href="/news" class="active">News</a>`)
	assert.Contains(t, html, `<a href="/deadlines" class="">Deadlines</a>`)
	assert.Contains(t, html, `<footer class="footer">Batch 25F | Cybersecurity A2</footer>`)
}

func TestNewsPage_ArchivedCard(t *testing.T) {
	items := []domain.NewsItem{
		{ID: "orientation", Title: "Orientation", Date: now.AddDate(0, 0, -40), Category: domain.CategoryGeneral, IsArchived: true},
	}
	view := board.BuildNewsView(items, board.FilterArchived, now, false)

	html := renderString(t, newRenderer().NewsPage(view))

	assert.Contains(t, html, `class="news-card archived" id="news-orientation"`)
	assert.Contains(t, html, `class="category-badge general-update archived"`)
	assert.Contains(t, html, `<i class="fas fa-info-circle"></i> General Update`)
}

func TestDeadlineArticle_SanitizesUnsafeLink(t *testing.T) {
	html := renderString(t, deadlineArticle(deadlineCard{
		DOMID:     "deadline-x",
		Title:     "X",
		Priority:  "low",
		SubmitURL: "javascript:alert(1)",
	}))

	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `class="submit-btn"`)
}

func TestPages_StopOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := newRenderer().ResourcesPage().Render(ctx, &buf)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
