package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subdl/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent acquisition runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			records, err := store.ListRuns(limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), runsTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
