package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resumepanel/internal/cli"
	"resumepanel/internal/config"
	"resumepanel/internal/errors"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// RESUMEPANEL_CONFIG points at an explicit config file; otherwise the
	// standard search paths are used.
	cfg, err := config.LoadConfigFrom(os.Getenv("RESUMEPANEL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting resumepanel",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"ai_provider", cfg.AI.Provider,
		"default_profile", cfg.Analysis.DefaultProfile)

	if err := cli.Execute(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Application execution failed")
		stop()
		os.Exit(1)
	}
}
