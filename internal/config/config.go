package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration validation constants
const (
	MinAPITimeout        = 1   // Minimum API timeout in seconds
	MaxAPITimeout        = 300 // Maximum API timeout in seconds
	MinSubscriptionDelay = 0   // Minimum delay between subscriptions

	// Default values
	DefaultAPITimeout        = 30  // Range query timeout in seconds
	DefaultSubscriptionDelay = 2   // Pause between subscriptions in seconds
	DefaultRetryBudget       = 600 // Total time allowed for 429 retries in seconds
	DefaultOutputDir         = "."
	DefaultLogLevel          = "info"
)

// Environment variables required before any network call is made
var requiredEnvVars = []string{
	"AZURE_TENANT_ID",
	"AZURE_CLIENT_ID",
	"AZURE_CLIENT_SECRET",
	"SUBSCRIPTION_MAIN",
	"SUBSCRIPTION_PROD",
	"SUBSCRIPTION_DEV",
	"SUBSCRIPTION_TEST",
}

// Subscription represents an Azure subscription to report on
type Subscription struct {
	// Name is the fixed report name (main, prod, dev, test)
	Name string
	// ID is the Azure subscription ID
	ID string
}

// Config represents the application configuration. Tunables come from an
// optional YAML file; credentials and subscription IDs come from the
// environment only.
type Config struct {
	APITimeout        int    `yaml:"api_timeout"`        // seconds
	SubscriptionDelay *int   `yaml:"subscription_delay"` // seconds; pointer to distinguish between 0 and unset
	RetryBudget       int    `yaml:"retry_budget"`       // seconds
	OutputDir         string `yaml:"output_dir"`
	LogLevel          string `yaml:"log_level"`

	TenantID     string `yaml:"-"`
	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`

	// Subscriptions in report processing order: main, prod, dev, test
	Subscriptions []Subscription `yaml:"-"`
}

// Load loads configuration from an optional YAML file and the environment.
// A missing config file is not an error; missing environment variables are.
func Load(path string) (*Config, error) {
	var cfg Config

	// #nosec G304 -- Config file path is provided by the operator via CLI flag, not user input
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults only
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := loadEnv(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.APITimeout == 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if cfg.SubscriptionDelay == nil {
		delay := DefaultSubscriptionDelay
		cfg.SubscriptionDelay = &delay
	}
	if cfg.RetryBudget == 0 {
		cfg.RetryBudget = DefaultRetryBudget
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// loadEnv reads credentials and subscription IDs from the environment,
// reporting every missing variable at once
func loadEnv(cfg *Config) error {
	var missing []string
	for _, name := range requiredEnvVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg.TenantID = os.Getenv("AZURE_TENANT_ID")
	cfg.ClientID = os.Getenv("AZURE_CLIENT_ID")
	cfg.ClientSecret = os.Getenv("AZURE_CLIENT_SECRET")

	cfg.Subscriptions = []Subscription{
		{Name: "main", ID: os.Getenv("SUBSCRIPTION_MAIN")},
		{Name: "prod", ID: os.Getenv("SUBSCRIPTION_PROD")},
		{Name: "dev", ID: os.Getenv("SUBSCRIPTION_DEV")},
		{Name: "test", ID: os.Getenv("SUBSCRIPTION_TEST")},
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.APITimeout < MinAPITimeout || cfg.APITimeout > MaxAPITimeout {
		return fmt.Errorf("api_timeout must be between %d and %d seconds, got %d", MinAPITimeout, MaxAPITimeout, cfg.APITimeout)
	}

	if *cfg.SubscriptionDelay < MinSubscriptionDelay {
		return fmt.Errorf("subscription_delay cannot be negative, got %d", *cfg.SubscriptionDelay)
	}

	if cfg.RetryBudget <= 0 {
		return fmt.Errorf("retry_budget must be positive, got %d", cfg.RetryBudget)
	}

	for i, sub := range cfg.Subscriptions {
		if sub.ID == "" {
			return fmt.Errorf("subscription at index %d (%s) has empty ID", i, sub.Name)
		}
	}

	return nil
}
