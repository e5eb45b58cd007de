package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. The TMDB key is optional:
// without it runs fall back to the always-check region list and platform
// metadata only.
func (c *Config) Validate() error {
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateDedupe(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFetch() error {
	if err := ensurePositiveMap(map[string]int{
		"fetch.workers":             c.Fetch.Workers,
		"fetch.retry_delay_seconds": c.Fetch.RetryDelaySeconds,
		"fetch.timeout_seconds":     c.Fetch.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Fetch.RetryAttempts < 0 {
		return errors.New("fetch.retry_attempts must be >= 0")
	}
	return nil
}

func (c *Config) validateDedupe() error {
	if c.Dedupe.SimilarityThreshold <= 0 || c.Dedupe.SimilarityThreshold > 100 {
		return errors.New("dedupe.similarity_threshold must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of auto, console, json", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
