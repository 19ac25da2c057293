package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-stats/internal/catalog"
	"github.com/mauv0809/tournament-stats/internal/config"
	"github.com/mauv0809/tournament-stats/internal/database"
	server "github.com/mauv0809/tournament-stats/internal/http"
	"github.com/mauv0809/tournament-stats/internal/metrics"
	"github.com/mauv0809/tournament-stats/internal/notifier/slack"
	"github.com/mauv0809/tournament-stats/internal/osirion"
	"github.com/mauv0809/tournament-stats/internal/participation"
	"github.com/mauv0809/tournament-stats/internal/roster"
	"github.com/mauv0809/tournament-stats/internal/selection"
	"github.com/mauv0809/tournament-stats/internal/stats"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warn("Unknown LOG_LEVEL, keeping info", "level", cfg.LogLevel)
	}

	db, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		db.Close()
	}()

	rosterStore := roster.New(db)
	if err := rosterStore.Replace(cfg.Roster); err != nil {
		log.Fatalf("Failed to seed roster: %s", err)
	}

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	osirionClient := osirion.NewClient(cfg.Osirion.BaseURL, cfg.Osirion.APIKey, cfg.Osirion.Timeout)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	// appCtx bounds every background resolution.
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	machine := selection.New(appCtx,
		catalog.NewLoader(osirionClient, metricsSvc),
		participation.NewResolver(osirionClient, metricsSvc),
		stats.NewResolver(osirionClient, metricsSvc),
		metricsSvc,
	)

	// Pipeline failures are already logged and counted where they happen.
	go func() {
		for err := range machine.Errors() {
			log.Debug("Pipeline diagnostic", "error", err)
		}
	}()

	// The catalog loads in the background; the UI shows it as busy until then.
	go func() {
		if err := machine.LoadCatalog(appCtx); err != nil {
			log.Warn("Starting with an empty tournament catalog", "error", err)
		}
	}()

	s := server.NewServer(rosterStore, machine, metricsSvc, metricsHandler, cfg, notifier)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	stopApp()
	machine.Wait()
	log.Info("Server process shutting down")
}
