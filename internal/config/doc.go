// Package config handles loading and validating application configuration
// from config files and environment variables.
package config
