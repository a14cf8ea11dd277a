package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GridPath string // hcl or yaml files
	Target   string // task to execute

	LogFormat string
	LogLevel  string
	FailFast  bool
	ListTasks bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	if !cfg.ListTasks && cfg.Target == "" {
		return nil, errors.New("a target task is required unless listing tasks")
	}

	return &cfg, nil
}
