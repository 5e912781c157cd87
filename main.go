package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/squad-roster/internal/activity"
	"github.com/mauv0809/squad-roster/internal/announcement"
	"github.com/mauv0809/squad-roster/internal/attendance"
	"github.com/mauv0809/squad-roster/internal/auth"
	"github.com/mauv0809/squad-roster/internal/config"
	"github.com/mauv0809/squad-roster/internal/database"
	server "github.com/mauv0809/squad-roster/internal/http"
	"github.com/mauv0809/squad-roster/internal/leaderboard"
	"github.com/mauv0809/squad-roster/internal/metrics"
	"github.com/mauv0809/squad-roster/internal/notifier"
	"github.com/mauv0809/squad-roster/internal/notifier/slack"
	"github.com/mauv0809/squad-roster/internal/pubsub"
	"github.com/mauv0809/squad-roster/internal/recorder"
	"github.com/mauv0809/squad-roster/internal/roster"
	"github.com/mauv0809/squad-roster/internal/screenshot"
	"github.com/mauv0809/squad-roster/internal/stats"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown log level, keeping default", "level", cfg.LogLevel)
	}

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	files, err := screenshot.NewOS(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %s", err)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.New(db)

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Enabled() {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack not configured, notifications disabled")
	}

	ps := pubsub.NewNoop()
	if cfg.ProjectID != "" {
		ps, err = pubsub.New(context.Background(), cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("No Google Cloud project configured, events are not published")
	}
	defer ps.Close()

	rosterStore := roster.New(db)
	statsStore := stats.New(db)
	activityStore := activity.New(db, ps)

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %s", err)
	}
	created, err := rosterStore.EnsureAdmin(context.Background(), cfg.Admin.Username, hash)
	if err != nil {
		log.Fatalf("Failed to create admin account: %s", err)
	}
	if created {
		log.Warn("Created default admin account, change its password", "username", cfg.Admin.Username)
	}

	s := server.NewServer(server.Server{
		Roster:         rosterStore,
		Stats:          statsStore,
		Attendance:     attendance.New(db),
		Announcements:  announcement.New(db),
		Activity:       activityStore,
		Leaderboard:    leaderboard.New(rosterStore, statsStore, metricsSvc),
		Recorder:       recorder.New(statsStore, rosterStore, files, activityStore, notif, metricsSvc, counters, ps),
		Files:          files,
		Issuer:         auth.NewIssuer(cfg.SecretKey, cfg.SessionTTL),
		Notifier:       notif,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		PubSub:         ps,
		Cfg:            cfg,
	})

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
