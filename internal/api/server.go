// Package api serves the pages, the JSON views and the notification relay.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"resource_hub/internal/domain"
	"resource_hub/internal/render"
	"resource_hub/internal/service"
	"resource_hub/internal/sse"
)

type ContentProvider interface {
	Snapshot() *service.Snapshot
}

type Refresher interface {
	Refresh(ctx context.Context) (*domain.RefreshStats, error)
}

type NotificationSender interface {
	Enabled() bool
	Send(ctx context.Context, origin string, n domain.Notification) (*domain.NotificationResult, error)
}

type NotificationHistory interface {
	Recent(ctx context.Context, limit int) ([]domain.NotificationLogEntry, error)
}

// Relay is one deployment variant of the notification relay endpoint.
type Relay struct {
	Name       string
	Path       string
	DefaultURL string
}

// Options configures the server. History and Refresher may be nil. The
// refresh route is only served when RefreshToken is set.
type Options struct {
	Address        string
	StaticDir      string
	Site           render.Site
	Location       *time.Location
	Content        ContentProvider
	Refresher      Refresher
	RefreshToken   string
	RefreshTimeout time.Duration
	Sender         NotificationSender
	History        NotificationHistory
	Hub            *sse.Hub
	Relays         []Relay
	TickInterval   time.Duration
	Logger         *slog.Logger
}

type Server struct {
	opts     *Options
	app      *echo.Echo
	renderer *render.Renderer
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(opts *Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.TickInterval == 0 {
		opts.TickInterval = time.Second
	}
	if opts.RefreshTimeout == 0 {
		opts.RefreshTimeout = 2 * time.Minute
	}
	if opts.Hub == nil {
		opts.Hub = sse.NewHub()
	}

	s := &Server{
		opts:     opts,
		app:      echo.New(),
		renderer: render.New(opts.Site, opts.Location),
		logger:   opts.Logger.With("component", "http"),
		now:      time.Now,
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Recover(), requestLogger(s.logger))
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.logger)

	if s.opts.StaticDir != "" {
		s.app.Static("/static", s.opts.StaticDir)
	}

	s.app.GET("/", s.resources)
	s.app.GET("/subjects/:subject", s.subject)
	s.app.GET("/news", s.newsPage)
	s.app.GET("/deadlines", s.deadlinesPage)
	s.app.GET("/deadlines/stream", s.deadlineStream)
	s.app.GET("/healthz", s.health)

	api := s.app.Group("/api")
	api.GET("/news", s.newsJSON)
	api.GET("/deadlines", s.deadlinesJSON)
	if s.opts.RefreshToken != "" {
		api.POST("/refresh", s.refresh, middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Validator: s.validRefreshToken,
		}))
	}
	api.GET("/notifications", s.notifications)

	for _, relay := range s.opts.Relays {
		s.app.Any(relay.Path, s.relayHandler(relay))
	}
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "address", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
