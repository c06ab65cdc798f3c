// Package config provides centralized configuration management for SalesPulse.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later layers winning:
//
//	1. Default values (Default)
//	2. Configuration file (config.yaml or configs/config.yaml)
//	3. Environment variables that are explicitly set
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_* for namespacing:
//
//	SALES_SOURCE_PATH=data/sales.xlsx
//	SALES_SOURCE_SHEET="Sales Report"
//	SALES_ANALYTICS_TOP_N=10
//	SALES_SERVER_PORT=8080
//	SALES_LOGGING_LEVEL=info
//	SALES_TELEMETRY_METRIC_EXPORTER=prometheus
//
// # Validation
//
// The merged configuration is validated with go-playground/validator struct
// tags; an invalid configuration is fatal at startup.
package config
