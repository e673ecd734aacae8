package api

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// requestLogger writes one line per request, at a level chosen by status.
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			path := req.URL.Path
			if path == "" {
				path = "/"
			}

			attrs := []any{
				"method", req.Method,
				"path", path,
				"query", req.URL.RawQuery,
				"remote_ip", c.RealIP(),
				"status", res.Status,
				"latency", time.Since(start).String(),
				"bytes_out", res.Size,
			}

			const msg = "request handled"

			switch {
			case res.Status >= 500:
				if err != nil {
					attrs = append(attrs, "error", err)
				}
				logger.Error(msg, attrs...)
			case res.Status >= 400:
				logger.Warn(msg, attrs...)
			default:
				logger.Debug(msg, attrs...)
			}

			return nil
		}
	}
}
