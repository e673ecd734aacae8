// Package render turns board views into HTML pages.
package render

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
)

// Site describes the cohort the pages are rendered for.
type Site struct {
	Title    string
	Subtitle string
	Subjects []SubjectLink
}

// SubjectLink is a subject card on the resources page.
type SubjectLink struct {
	Name        string
	Description string
	DriveURL    string
}

type Renderer struct {
	site     Site
	location *time.Location
	md       goldmark.Markdown
}

func New(site Site, location *time.Location) *Renderer {
	if location == nil {
		location = time.UTC
	}
	return &Renderer{
		site:     site,
		location: location,
		md:       newMarkdown(),
	}
}

var navLinks = []struct {
	Path  string
	Label string
}{
	{"/", "Resources"},
	{"/news", "News"},
	{"/deadlines", "Deadlines"},
}

func (r *Renderer) page(title, active string) pageMeta {
	nav := make([]navLink, len(navLinks))
	for i, link := range navLinks {
		nav[i] = navLink{Path: link.Path, Label: link.Label, Active: link.Path == active}
	}
	return pageMeta{
		Title:     title,
		SiteTitle: r.site.Title,
		Footer:    r.site.Subtitle,
		Nav:       nav,
	}
}

func tabLinks(base string, tabs []string, active string) []tabLink {
	links := make([]tabLink, len(tabs))
	for i, tab := range tabs {
		links[i] = tabLink{
			Label:  tabLabel(tab),
			Tag:    tab,
			Href:   base + "?filter=" + queryEscape(tab),
			Active: tab == active,
		}
	}
	return links
}

// failed renders nothing and reports err, so the handler answers 500.
func failed(err error) templ.Component {
	return templ.ComponentFunc(func(context.Context, io.Writer) error {
		return err
	})
}
