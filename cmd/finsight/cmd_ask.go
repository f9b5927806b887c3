package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/answer"
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/marketdata"
	"github.com/finsight-ai/finsight/internal/router"
)

func newAskCommand() *cobra.Command {
	var (
		symbol   string
		showArgs bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single financial question",
		Long: `Route one free-text question to a data-fetch tool, fetch the data,
and print a grounded answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}
			market, err := newMarketClient(cfg)
			if err != nil {
				return err
			}
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("loading tool catalog: %w", err)
			}
			if symbol == "" {
				symbol = cfg.Eval.Symbol
			}
			symbol = strings.ToUpper(symbol)

			decision, err := router.New(client, cat, cfg.LLM.RouterModel).Route(cmd.Context(), question)
			if err != nil {
				return fmt.Errorf("routing question: %w", err)
			}

			filled := cat.FillDefaults(decision.Tool, decision.Arguments)
			if showArgs {
				encoded, _ := json.Marshal(filled)
				fmt.Fprintf(cmd.OutOrStdout(), "Tool: %s %s\n\n", decision.Tool, encoded) //nolint:errcheck
			}

			result := marketdata.Call(cmd.Context(), market, symbol, decision.Tool, filled)
			if !result.OK {
				return fmt.Errorf("fetching data: %s", result.Err)
			}

			text, err := answer.New(client, cfg.LLM.AnswerModel).Generate(cmd.Context(), question, decision.Tool, result.Data)
			if err != nil {
				return fmt.Errorf("generating answer: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), text) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Ticker symbol (default: from config)")
	cmd.Flags().BoolVar(&showArgs, "show-routing", false, "Print the routed tool and arguments before the answer")

	return cmd
}
