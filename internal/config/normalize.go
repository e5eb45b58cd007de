package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeTMDB(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeDedupe()
	c.normalizeLogging()
	return c.normalizeHistory()
}

func (c *Config) normalizeTMDB() error {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if strings.TrimSpace(c.Output.Directory) == "" {
		c.Output.Directory = defaultOutputDir
	}
	if c.Output.Directory, err = expandPath(c.Output.Directory); err != nil {
		return fmt.Errorf("output.directory: %w", err)
	}
	return nil
}

func (c *Config) normalizeFetch() {
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = defaultFetchWorkers
	}
	if c.Fetch.RetryAttempts < 0 {
		c.Fetch.RetryAttempts = defaultRetryAttempts
	}
	if c.Fetch.RetryDelaySeconds <= 0 {
		c.Fetch.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeDedupe() {
	if c.Dedupe.SimilarityThreshold <= 0 {
		c.Dedupe.SimilarityThreshold = defaultSimilarityThreshold
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}
