package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subdl/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set tmdb api_key (or export TMDB_API_KEY) to enable metadata resolution.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			tmdbKey := "(not set)"
			if cfg.TMDB.APIKey != "" {
				tmdbKey = "(set)"
			}
			rows := [][2]string{
				{"output.directory", cfg.Output.Directory},
				{"tmdb.api_key", tmdbKey},
				{"tmdb.base_url", cfg.TMDB.BaseURL},
				{"tmdb.language", cfg.TMDB.Language},
				{"fetch.workers", fmt.Sprintf("%d", cfg.Fetch.Workers)},
				{"fetch.retry_attempts", fmt.Sprintf("%d", cfg.Fetch.RetryAttempts)},
				{"fetch.retry_delay_seconds", fmt.Sprintf("%d", cfg.Fetch.RetryDelaySeconds)},
				{"fetch.timeout_seconds", fmt.Sprintf("%d", cfg.Fetch.TimeoutSeconds)},
				{"dedupe.similarity_threshold", fmt.Sprintf("%g", cfg.Dedupe.SimilarityThreshold)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"history.enabled", fmt.Sprintf("%t", cfg.History.Enabled)},
				{"history.path", cfg.History.Path},
			}
			fmt.Fprintln(cmd.OutOrStdout(), kvTable("Setting", "Value", rows, false))
			return nil
		},
	}
}
