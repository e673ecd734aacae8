package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const maxHistoryLimit = 200

func (s *Server) health(c echo.Context) error {
	snap := s.opts.Content.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"loadedAt": snap.LoadedAt,
	})
}

func (s *Server) refresh(c echo.Context) error {
	if s.opts.Refresher == nil {
		return echo.NewHTTPError(http.StatusNotFound, "refresh is not enabled")
	}

	// A client that hangs up must not cut the load short.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), s.opts.RefreshTimeout)
	defer cancel()

	stats, err := s.opts.Refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) validRefreshToken(key string, _ echo.Context) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.opts.RefreshToken)) == 1, nil
}

func (s *Server) notifications(c echo.Context) error {
	if s.opts.History == nil {
		return errNoHistory
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := s.opts.History.Recent(c.Request().Context(), limit)
	if err != nil {
		return fmt.Errorf("load notification history: %w", err)
	}
	return c.JSON(http.StatusOK, entries)
}
