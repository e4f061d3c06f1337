package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/zgpcy/azure-cost-report/internal/azure"
	"github.com/zgpcy/azure-cost-report/internal/clock"
	"github.com/zgpcy/azure-cost-report/internal/config"
	"github.com/zgpcy/azure-cost-report/internal/logger"
	"github.com/zgpcy/azure-cost-report/internal/metrics"
	"github.com/zgpcy/azure-cost-report/internal/runner"
	"github.com/zgpcy/azure-cost-report/internal/version"
)

var configPath = flag.String("config", "config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration first (need log level from config)
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Azure Cost Report starting",
		"version", version.Info()["version"],
		"config_path", *configPath)

	logger.Info("Configuration loaded successfully",
		"subscriptions", len(cfg.Subscriptions),
		"api_timeout_seconds", cfg.APITimeout,
		"subscription_delay_seconds", *cfg.SubscriptionDelay,
		"retry_budget_seconds", cfg.RetryBudget,
		"output_dir", cfg.OutputDir)

	ctx := context.Background()

	// Acquire the bearer token once; every query reuses it
	logger.Info("Acquiring Azure access token")
	token, err := azure.AcquireToken(ctx, cfg)
	if err != nil {
		logger.Error("Failed to acquire access token", "error", err)
		os.Exit(1)
	}
	logger.Info("Access token acquired")

	m := metrics.New()
	client := azure.NewClient(token, cfg, m, logger)

	r := runner.New(cfg, client, m, logger, clock.RealClock{}, os.Stdin, os.Stdout)

	days, err := r.PromptDays()
	if err != nil {
		logger.Error("Failed to read lookback window", "error", err)
		os.Exit(1)
	}

	if err := r.Run(ctx, days); err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}
}
