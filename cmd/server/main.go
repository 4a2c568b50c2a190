// Command server runs the campaign console API.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ignite/campaign-console/internal/analytics"
	"github.com/ignite/campaign-console/internal/api"
	"github.com/ignite/campaign-console/internal/auth"
	"github.com/ignite/campaign-console/internal/backend"
	"github.com/ignite/campaign-console/internal/config"
	"github.com/ignite/campaign-console/internal/esp"
	"github.com/ignite/campaign-console/internal/pkg/logger"
	"github.com/ignite/campaign-console/internal/realtime"
	"github.com/ignite/campaign-console/internal/repository/postgres"
	"github.com/ignite/campaign-console/internal/service/campaign"
	"github.com/ignite/campaign-console/internal/service/contact"
)

func main() {
	log := logger.With("main")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		log.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	backendClient := backend.NewClient(cfg.Backend)
	fetcher := analytics.NewFetcher(backendClient)

	// Realtime refresh is optional; the dashboard polls without it.
	var refresh analytics.RefreshSource
	var notifier campaign.Notifier
	if cfg.Redis.Enabled {
		source, err := realtime.NewSource(ctx, cfg.Redis)
		if err != nil {
			log.Warn("realtime disabled", "error", err)
		} else {
			defer source.Close()
			refresh = source
			notifier = source
		}
	}

	var sender api.TestSender
	if cfg.SES.Enabled {
		s, err := esp.NewSender(ctx, cfg.SES)
		if err != nil {
			log.Warn("test sends disabled", "error", err)
		} else {
			sender = s
		}
	}

	campaignSvc := campaign.NewService(postgres.NewCampaignRepo(db), notifier)
	contactSvc := contact.NewService(postgres.NewContactRepo(db))

	handlers := api.NewHandlers(cfg.Analytics, fetcher, refresh, campaignSvc, contactSvc, sender, backendClient)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	authManager := auth.NewManager(cfg.Auth, baseURL)
	authManager.StartCleanup(5 * time.Minute)
	defer authManager.StopCleanup()

	router := api.SetupRoutes(handlers, authManager)
	server := api.NewServer(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}
}
