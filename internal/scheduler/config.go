package scheduler

import (
	"time"
)

// Config controls scheduler intervals and job selection.
type Config struct {
	RunInterval time.Duration
	// EnabledJobs limits which jobs run; empty enables all of them.
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval: 24 * time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	return c
}
