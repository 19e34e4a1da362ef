package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPath string // hcl files

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
	WaitTimeout     time.Duration
	DryRun          bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
