package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"resource_hub/internal/api"
	"resource_hub/internal/config"
	"resource_hub/internal/content"
	"resource_hub/internal/domain"
	"resource_hub/internal/notify/onesignal"
	"resource_hub/internal/publisher"
	"resource_hub/internal/render"
	"resource_hub/internal/scheduler"
	"resource_hub/internal/service"
	"resource_hub/internal/source/github"
	"resource_hub/internal/source/httpx"
	"resource_hub/internal/source/jsonfeed"
	"resource_hub/internal/sse"
	"resource_hub/internal/storage/bolt"
	"resource_hub/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	location, err := cfg.Site.Location()
	if err != nil {
		logger.Error("invalid site timezone", "error", err)
		os.Exit(1)
	}

	var (
		syncState     service.SyncStateStore
		txManager     service.TransactionManager
		announcements service.AnnouncementStore
		notifyLog     service.NotificationLog
		history       api.NotificationHistory
	)

	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		logger.Info("connected to database")

		logStore := postgres.NewNotificationLogStore(db)
		syncState = postgres.NewSyncStateStore(db)
		txManager = postgres.NewTransactionManager(db)
		announcements = postgres.NewAnnouncementStore(db)
		notifyLog = logStore
		history = logStore
	}

	var boltDB *bolt.DB
	if cfg.Cache.BoltPath != "" {
		boltDB, err = bolt.Open(cfg.Cache.BoltPath)
		if err != nil {
			logger.Error("failed to open bolt cache", "error", err)
			os.Exit(1)
		}
		defer boltDB.Close()

		if announcements == nil {
			announcements = boltDB.Announcements()
		}
	}

	if announcements == nil && cfg.Notifications.Mode != config.NotifyDisabled {
		logger.Warn("announcements disabled: no persistent store, set database.enabled or cache.bolt_path")
	}

	// Initialize content source
	client := httpx.New(httpx.Config{
		Timeout:        cfg.HTTP.Timeout,
		MaxAttempts:    cfg.HTTP.Retry.MaxAttempts,
		InitialBackoff: cfg.HTTP.Retry.InitialBackoff,
		MaxBackoff:     cfg.HTTP.Retry.MaxBackoff,
		UserAgent:      cfg.HTTP.UserAgent,
	}, logger)

	var source content.Source
	switch cfg.Content.Source {
	case config.SourceGitHub:
		var cache github.DocumentCache
		if boltDB != nil {
			cache = boltDB.Documents()
		}

		gh := cfg.Content.GitHub
		source = github.New(github.Config{
			APIBaseURL: gh.APIBaseURL,
			Owner:      gh.Owner,
			Repo:       gh.Repo,
			Branch:     gh.Branch,
			Token:      gh.Token,
			Dirs: map[domain.Collection]string{
				domain.CollectionNews:      gh.NewsDir,
				domain.CollectionDeadlines: gh.DeadlinesDir,
			},
			Concurrency: gh.Concurrency,
		}, client, cache, logger)
	default:
		source = jsonfeed.New(jsonfeed.Config{
			Locations: map[domain.Collection]string{
				domain.CollectionNews:      cfg.Content.JSON.News,
				domain.CollectionDeadlines: cfg.Content.JSON.Deadlines,
			},
		}, client, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// Initialize notifications. The relay always talks to OneSignal directly;
	// reminders and announcements go through the queue in queue mode.
	var (
		notifier      service.Notifier
		relayNotifier service.Notifier
	)

	if cfg.Notifications.Mode != config.NotifyDisabled {
		oneSignal := onesignal.New(onesignal.Config{
			BaseURL:    cfg.Notifications.OneSignal.BaseURL,
			AppID:      cfg.Notifications.OneSignal.AppID,
			APIKey:     cfg.Notifications.OneSignal.APIKey,
			DefaultURL: cfg.Site.BaseURL,
			Timeout:    cfg.Notifications.OneSignal.Timeout,
		}, logger)
		relayNotifier = oneSignal
		notifier = oneSignal

		if cfg.Notifications.Mode == config.NotifyQueue {
			rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
				URL:        cfg.RabbitMQ.URL,
				Exchange:   cfg.RabbitMQ.Exchange,
				RoutingKey: cfg.RabbitMQ.RoutingKey,
				QueueName:  cfg.RabbitMQ.QueueName,
			}, logger)
			if err != nil {
				logger.Error("failed to connect to rabbitmq", "error", err)
				os.Exit(1)
			}
			defer rabbitMQ.Close()
			notifier = rabbitMQ

			g.Go(func() error {
				return rabbitMQ.Consume(ctx, deliver(oneSignal, logger))
			})
		}
	}

	dispatcher := service.NewDispatcher(notifier, notifyLog, logger)
	relayDispatcher := service.NewDispatcher(relayNotifier, notifyLog, logger)

	hub := sse.NewHub()

	loader := content.NewLoader(source, location, logger)
	refreshService := service.NewRefreshService(
		loader,
		syncState,
		txManager,
		announcements,
		dispatcher,
		hub,
		logger,
		service.RefreshConfig{NewsURL: cfg.Site.BaseURL + "/news"},
	)

	jobs := []scheduler.Job{{
		Name:     "refresh",
		Runner:   refreshService,
		Interval: cfg.Refresh.Interval,
	}}
	if cfg.Reminders.Enabled && dispatcher.Enabled() {
		reminders := service.NewReminderService(refreshService, dispatcher, logger, service.ReminderConfig{URL: cfg.Reminders.URL})
		jobs = append(jobs, scheduler.Job{
			Name:     "reminders",
			Runner:   reminders,
			Interval: cfg.Reminders.Interval,
		})
	}
	sched := scheduler.NewScheduler(logger, jobs...)

	relays := make([]api.Relay, 0, len(cfg.Notifications.Relays))
	for _, r := range cfg.Notifications.Relays {
		relays = append(relays, api.Relay{Name: r.Name, Path: r.Path, DefaultURL: r.DefaultURL})
	}

	server := api.NewServer(&api.Options{
		Address:        cfg.Server.Addr,
		StaticDir:      cfg.Server.StaticDir,
		Site:           siteFromConfig(cfg.Site),
		Location:       location,
		Content:        refreshService,
		Refresher:      refreshService,
		RefreshToken:   cfg.Refresh.Token,
		RefreshTimeout: cfg.Refresh.Timeout,
		Sender:         relayDispatcher,
		History:        history,
		Hub:            hub,
		Relays:         relays,
		TickInterval:   cfg.Server.TickInterval,
		Logger:         logger,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("starting resource hub",
		"source", loader.SourceID(),
		"refresh_interval", cfg.Refresh.Interval,
		"notifications", cfg.Notifications.Mode,
		"database", cfg.Database.Enabled,
	)

	g.Go(func() error {
		return sched.Start(ctx)
	})
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer stop()
		return server.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("resource hub stopped", "error", err)
		os.Exit(1)
	}
}

// deliver sends queued notifications to OneSignal. Rejected notifications
// are dropped; transport failures are retried once by the queue.
func deliver(client *onesignal.Client, logger *slog.Logger) publisher.Handler {
	return func(ctx context.Context, msg publisher.NotificationMessage) error {
		start := time.Now()
		result, err := client.Send(ctx, msg.Notification)
		if err != nil {
			var upstream *onesignal.UpstreamError
			if errors.As(err, &upstream) {
				logger.Error("notification rejected", "message_id", msg.ID, "error", err)
				return nil
			}
			return err
		}
		logger.Info("notification delivered",
			"message_id", msg.ID,
			"recipients", result.Recipients,
			"queued_for", start.Sub(msg.Timestamp),
		)
		return nil
	}
}

func siteFromConfig(cfg config.SiteConfig) render.Site {
	site := render.Site{
		Title:    cfg.Title,
		Subtitle: cfg.Subtitle,
	}
	for _, s := range cfg.Subjects {
		site.Subjects = append(site.Subjects, render.SubjectLink{
			Name:        s.Name,
			Description: s.Description,
			DriveURL:    s.DriveLink,
		})
	}
	return site
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
