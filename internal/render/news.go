package render

import (
	"fmt"

	"github.com/a-h/templ"

	"resource_hub/internal/board"
	"resource_hub/internal/domain"
)

// NewsPage renders the news board.
func (r *Renderer) NewsPage(view board.NewsView) templ.Component {
	cards := make([]newsCard, 0, len(view.Items))
	for _, item := range view.Items {
		card, err := r.newsCard(item, view)
		if err != nil {
			return failed(fmt.Errorf("render news %s: %w", item.ID, err))
		}
		cards = append(cards, card)
	}

	var empty string
	if view.Empty() {
		empty = "No news in this category yet."
		if view.SourceFailed {
			empty = "News could not be loaded right now."
		}
	}

	return newsBoard(r.page("News", "/news"), tabLinks("/news", view.Tabs, view.Filter), cards, empty)
}

func (r *Renderer) newsCard(item domain.NewsItem, view board.NewsView) (newsCard, error) {
	body, err := r.markdown(item.Body)
	if err != nil {
		return newsCard{}, err
	}
	return newsCard{
		DOMID:         cardID("news", item.ID),
		Title:         item.Title,
		Date:          NewsDate(item.Date, view.Now, r.location),
		Category:      string(item.Category),
		CategoryClass: CategoryClass(item.Category),
		Icon:          categoryIcon(item.Category),
		Featured:      item.Featured,
		Archived:      item.IsArchived,
		BodyHTML:      body,
	}, nil
}
