package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"subdl/internal/acquire"
	"subdl/internal/history"
	"subdl/internal/logging"
	"subdl/internal/tmdb"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "fetch <apple-tv-url>",
		Short: "Fetch and deduplicate subtitles for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			opts := acquire.ServiceOptions{
				OutputDir:      cfg.Output.Directory,
				Workers:        cfg.Fetch.Workers,
				RetryAttempts:  cfg.Fetch.RetryAttempts,
				RetryDelay:     cfg.RetryDelay(),
				AttemptTimeout: cfg.AttemptTimeout(),
				Threshold:      cfg.Dedupe.SimilarityThreshold,
			}
			if outputFlag != "" {
				opts.OutputDir = outputFlag
			}
			if cfg.TMDB.APIKey != "" {
				resolver, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
				if err != nil {
					return fmt.Errorf("build TMDB client: %w", err)
				}
				opts.Resolver = resolver
			} else {
				logger.Warn("no TMDB API key configured; using always-check regions only")
			}
			if cfg.History.Enabled {
				store, err := history.Open(cfg.History.Path)
				if err != nil {
					return fmt.Errorf("open history database: %w", err)
				}
				defer store.Close()
				opts.History = store
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			service := acquire.NewService(logger, opts)
			report, err := service.Run(runCtx, args[0])
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(report))
			}
			if err != nil {
				if errors.Is(err, acquire.ErrRunInProgress) {
					return fmt.Errorf("%w; wait for it to finish or check %s", err, opts.OutputDir)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Override the configured output directory")
	return cmd
}
