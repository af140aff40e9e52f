package main

import "errors"

// Config controls which rule files the generator writes and where.
type Config struct {
	OutputDir        string
	RecordingEnabled bool
	AlertsEnabled    bool
}

// DefaultConfig writes every rule file into deploy/prometheus relative to
// the repository root.
func DefaultConfig() Config {
	return Config{
		OutputDir:        "deploy/prometheus",
		RecordingEnabled: true,
		AlertsEnabled:    true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.RecordingEnabled && !c.AlertsEnabled {
		return errors.New("at least one of recording or alert rules must be enabled")
	}
	return nil
}
