package config

import (
	"errors"
	"fmt"
	"strings"

	"dialogger/internal/transcribe"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	if !transcribe.ValidModel(c.Transcription.Model) {
		return fmt.Errorf("transcription.model %q is not supported (choose one of %s)",
			c.Transcription.Model, strings.Join(transcribe.ModelSizes, ", "))
	}
	if _, err := transcribe.ParseDevice(c.Transcription.Device); err != nil {
		return fmt.Errorf("transcription.device: %w", err)
	}
	if c.Transcription.Command == "" {
		return errors.New("transcription.command must be set")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.PreviewEntries < 0 {
		return errors.New("output.preview_entries must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}
