package api

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"resource_hub/internal/board"
)

func renderHTML(c echo.Context, status int, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func (s *Server) resources(c echo.Context) error {
	return renderHTML(c, http.StatusOK, s.renderer.ResourcesPage())
}

// subject redirects to the material folder of a subject.
func (s *Server) subject(c echo.Context) error {
	name := c.Param("subject")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	link, ok := s.opts.Site.DriveLink(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "drive link for "+name+" is not set yet")
	}
	return c.Redirect(http.StatusFound, link)
}

func (s *Server) newsView(c echo.Context) (board.NewsView, error) {
	filter, err := board.ParseNewsFilter(c.QueryParam("filter"))
	if err != nil {
		return board.NewsView{}, err
	}
	snap := s.opts.Content.Snapshot()
	return board.BuildNewsView(snap.News, filter, s.now(), snap.NewsFailed), nil
}

func (s *Server) deadlineView(c echo.Context) (board.DeadlineView, error) {
	filter, err := board.ParseDeadlineFilter(c.QueryParam("filter"))
	if err != nil {
		return board.DeadlineView{}, err
	}
	snap := s.opts.Content.Snapshot()
	return board.BuildDeadlineView(snap.Deadlines, filter, s.now(), snap.DeadlinesFailed), nil
}

func (s *Server) newsPage(c echo.Context) error {
	view, err := s.newsView(c)
	if err != nil {
		return err
	}
	return renderHTML(c, http.StatusOK, s.renderer.NewsPage(view))
}

func (s *Server) deadlinesPage(c echo.Context) error {
	view, err := s.deadlineView(c)
	if err != nil {
		return err
	}
	return renderHTML(c, http.StatusOK, s.renderer.DeadlinesPage(view))
}

func (s *Server) newsJSON(c echo.Context) error {
	view, err := s.newsView(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) deadlinesJSON(c echo.Context) error {
	view, err := s.deadlineView(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
