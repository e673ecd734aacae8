package render

import (
	"github.com/a-h/templ"

	"resource_hub/internal/domain"
)

// ResourcesPage renders one card per subject linking to its material folder.
func (r *Renderer) ResourcesPage() templ.Component {
	subjects := make([]subjectCard, len(r.site.Subjects))
	for i, subject := range r.site.Subjects {
		subjects[i] = subjectCard{
			Name:        subject.Name,
			Description: subject.Description,
			Icon:        subjectIcon(domain.Subject(subject.Name)),
			Href:        "/subjects/" + pathEscape(subject.Name),
		}
	}
	return resourceGrid(r.page("Resources", "/"), r.site.Title, r.site.Subtitle, subjects)
}

// DriveLink returns the material folder of subject, if one is set.
func (site Site) DriveLink(subject string) (string, bool) {
	for _, s := range site.Subjects {
		if s.Name == subject && s.DriveURL != "" {
			return s.DriveURL, true
		}
	}
	return "", false
}
