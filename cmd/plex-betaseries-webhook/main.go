package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Thilas/plex-betaseries-webhook/internal/api"
	"github.com/Thilas/plex-betaseries-webhook/internal/config"
	"github.com/Thilas/plex-betaseries-webhook/internal/controllers"
	"github.com/Thilas/plex-betaseries-webhook/internal/healthcheck"
	"github.com/Thilas/plex-betaseries-webhook/internal/services/betaseries"
	"github.com/Thilas/plex-betaseries-webhook/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plex-betaseries-webhook",
		Short: "Plex webhook relay marking played media as watched on BetaSeries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("plex-betaseries-webhook %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Plex webhook for BetaSeries")
	logger.WithField("server_url", cfg.ServerURL).Info("Configuration loaded")

	// 3. Initialize BetaSeries client
	bs := betaseries.NewClient(cfg, logger)
	logger.Info("BetaSeries client initialized")

	// 4. Initialize webhook manager
	manager := controllers.NewManager(logger, func(client *config.ClientConfig, user betaseries.User) (controllers.Member, error) {
		return bs.GetMember(client, user)
	})

	// 5. Initialize health check and metrics
	health := healthcheck.New(logger, version,
		&healthcheck.CPUUsageProvider{},
		&healthcheck.MemoryUsageProvider{},
		healthcheck.NewUptimeProvider(),
	)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 6. Initialize HTTP server
	server := api.NewServer(cfg, bs, manager, health, registry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 7. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Plex webhook for BetaSeries is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Plex webhook for BetaSeries stopped")
	return nil
}
