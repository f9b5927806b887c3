package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/config"
	"github.com/finsight-ai/finsight/internal/wizard"
)

// starterGolden is the seed question set written by init. Small on purpose:
// enough to exercise every tool and both matching tiers.
const starterGolden = `[
  {
    "id": "q-001",
    "question": "What is the current stock price?",
    "category": "prices",
    "expected_tool": "getPrices",
    "expected_arguments": {"range": "7d"}
  },
  {
    "id": "q-002",
    "question": "How has the stock performed over the last year?",
    "category": "prices",
    "expected_tool": "getPrices",
    "expected_arguments": {"range": "1y"}
  },
  {
    "id": "q-003",
    "question": "What was revenue in the last four quarters?",
    "category": "fundamentals",
    "expected_tool": "getFinancials",
    "expected_arguments": {"metric": "revenue", "limit": 4}
  },
  {
    "id": "q-004",
    "question": "Show me earnings per share trends",
    "category": "fundamentals",
    "expected_tool": "getFinancials",
    "expected_arguments": {"metric": "eps", "limit": 4},
    "strictness": "flexible"
  },
  {
    "id": "q-005",
    "question": "How much free cash flow does the company generate?",
    "category": "fundamentals",
    "expected_tool": "getFinancials",
    "expected_arguments": {"metric": "free_cash_flow", "limit": 4},
    "strictness": "flexible"
  },
  {
    "id": "q-006",
    "question": "Any recent news about the company?",
    "category": "news",
    "expected_tool": "getNews",
    "expected_arguments": {"limit": 5}
  },
  {
    "id": "q-007",
    "question": "Have any executives sold shares recently?",
    "category": "insider",
    "expected_tool": "getInsiderTrades",
    "expected_arguments": {"limit": 10}
  },
  {
    "id": "q-008",
    "question": "Show me the ten most recent headlines",
    "category": "news",
    "expected_tool": "getNews",
    "expected_arguments": {"limit": 10},
    "strictness": "strict"
  }
]
`

func newInitCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a finsight project",
		Long: `Initialize a finsight project directory.

Creates a .finsight.yaml config file, a starter golden question set, and a
results/ directory for run artifacts.

Use --interactive to run a guided wizard instead of writing defaults.

If no directory is specified, the current directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommandE(cmd, args, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Run the guided setup wizard")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string, interactive bool) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	spec := &wizard.ProjectSpec{
		LLMBaseURL:   config.DefaultLLMBaseURL,
		RouterModel:  config.DefaultRouterModel,
		AnswerModel:  config.DefaultAnswerModel,
		Symbol:       config.DefaultEvalSymbol,
		CacheBackend: config.DefaultCacheBackend,
		RedisAddr:    config.DefaultRedisAddr,
		ServerPort:   config.DefaultServerPort,
	}
	if interactive {
		collected, err := wizard.RunProjectWizard(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		spec = collected
	}

	content, err := wizard.GenerateConfig(spec)
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, ".finsight.yaml")
	if err := writeIfAbsent(configPath, content); err != nil {
		return err
	}
	goldenPath := filepath.Join(dir, config.DefaultEvalGolden)
	if err := writeIfAbsent(goldenPath, starterGolden); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, config.DefaultEvalOutDir), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized finsight project in %s\n", dir)         //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n  %s\n", configPath, goldenPath)              //nolint:errcheck
	fmt.Fprintf(cmd.OutOrStdout(), "\nNext: export %s and %s, then run:\n", //nolint:errcheck
		config.EnvLLMAPIKey, config.EnvMarketAPIKey)
	fmt.Fprintf(cmd.OutOrStdout(), "  finsight evaluate --mode fast\n") //nolint:errcheck
	return nil
}

// writeIfAbsent refuses to clobber files a user may have edited.
func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; remove it first to reinitialize", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
