// Package config provides configuration management for the cost report tool.
//
// Tunables are read from an optional YAML file; credentials and the four
// subscription IDs are read from the environment and validated before any
// network call is made.
//
// Required environment variables:
//   - AZURE_TENANT_ID: Azure AD tenant ID
//   - AZURE_CLIENT_ID: Service principal client ID
//   - AZURE_CLIENT_SECRET: Service principal secret
//   - SUBSCRIPTION_MAIN / SUBSCRIPTION_PROD / SUBSCRIPTION_DEV / SUBSCRIPTION_TEST:
//     subscription IDs for the four reported environments
//
// Example configuration file (config.yaml):
//
//	api_timeout: 30         # range query timeout in seconds
//	subscription_delay: 2   # pause between subscriptions in seconds
//	retry_budget: 600       # total time allowed for 429 retries in seconds
//	output_dir: "."
//	log_level: "info"
package config
