package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resource_hub/internal/board"
	"resource_hub/internal/domain"
	"resource_hub/internal/sse"
)

const heartbeatInterval = 25 * time.Second

// deadlineStream streams the countdowns of the visible deadline cards. The
// card set is rebuilt whenever the content is refreshed.
func (s *Server) deadlineStream(c echo.Context) error {
	filter, err := board.ParseDeadlineFilter(c.QueryParam("filter"))
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	w := c.Response()

	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, unsubscribe := s.opts.Hub.Subscribe(sse.TopicContent)
	defer unsubscribe()

	// Only the latest countdowns matter; a slow client skips ticks.
	countdowns := make(chan []board.Countdown, 1)
	ticker := board.NewTicker(s.opts.TickInterval, func(cs []board.Countdown) {
		select {
		case <-countdowns:
		default:
		}
		countdowns <- cs
	})
	defer ticker.Stop()

	ticker.Replace(ctx, s.visibleDeadlines(filter))

	// Initial comment to keep some proxies happy.
	if _, err := w.Write([]byte(": ok\n\n")); err != nil {
		return nil
	}
	w.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return nil
			}
			w.Flush()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type == sse.EventContentRefreshed {
				ticker.Replace(ctx, s.visibleDeadlines(filter))
			}
			if err := sse.Write(w, ev); err != nil {
				return nil
			}
			w.Flush()
		case cs := <-countdowns:
			if err := sse.Write(w, sse.Event{Type: sse.EventCountdown, Data: cs}); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func (s *Server) visibleDeadlines(filter string) []domain.DeadlineItem {
	snap := s.opts.Content.Snapshot()
	return board.BuildDeadlineView(snap.Deadlines, filter, s.now(), snap.DeadlinesFailed).Items
}
