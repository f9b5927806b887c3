package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/reporting"
	"github.com/finsight-ai/finsight/internal/storage"
)

func newRunsCommand() *cobra.Command {
	var (
		limit      int
		questionID string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show evaluation run history",
		Long: `Show recorded evaluation runs, newest first.

With --question, show how one golden question scored across runs instead.
Useful for spotting questions that regress after prompt changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.Open(cfg.Storage.Path, false)
			if err != nil {
				return fmt.Errorf("opening run history: %w", err)
			}
			defer store.Close() //nolint:errcheck

			if questionID != "" {
				history, err := store.QuestionHistory(cmd.Context(), questionID, limit)
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No recorded results for question %q.\n", questionID) //nolint:errcheck
					return nil
				}
				for _, h := range history {
					status := "✅"
					if !h.ToolMatch || !h.SemanticArgsMatch {
						status = "❌"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s run %s: %s (%dms)\n", //nolint:errcheck
						status, h.RunID, h.ActualTool, h.LatencyMs)
				}
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			reporting.RenderRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most N entries (0 = all)")
	cmd.Flags().StringVar(&questionID, "question", "", "Show per-run history for one question ID")

	return cmd
}
