// Package config loads process configuration. Application settings the user
// edits at runtime (intervals, sort order, dark mode) live in the settings
// store, not here; this covers only what the process needs to start.
package config

// Config holds all application configuration.
type Config struct {
	// DataDir is where the card collection, settings, and image blobs live.
	DataDir string `mapstructure:"data_dir" validate:"required"`

	// LogLevel controls the slog level for the whole process.
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// SweepIntervalSeconds is the cadence of the forgetting-curve sweep.
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds" validate:"required,gt=0"`
}
