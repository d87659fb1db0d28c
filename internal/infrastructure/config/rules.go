package config

import "time"

// RulesConfig holds the tunable gameplay parameters
type RulesConfig struct {
	// MaxActivePerBase caps concurrently active queue items per base.
	// Zero means unlimited (every submission schedules immediately).
	MaxActivePerBase int `mapstructure:"max_active_per_base" validate:"min=0"`
}

// SweepConfig holds the daemon sweep loop parameters
type SweepConfig struct {
	// Interval between sweep passes over all empires
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig holds Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
