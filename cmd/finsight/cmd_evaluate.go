package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finsight-ai/finsight/internal/answer"
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/eval"
	"github.com/finsight-ai/finsight/internal/golden"
	"github.com/finsight-ai/finsight/internal/judge"
	"github.com/finsight-ai/finsight/internal/reporting"
	"github.com/finsight-ai/finsight/internal/router"
	"github.com/finsight-ai/finsight/internal/storage"
)

func newEvaluateCommand() *cobra.Command {
	var (
		mode       string
		limit      int
		start      int
		llmJudge   bool
		goldenPath string
		outputDir  string
		compress   bool
		noPersist  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Replay the golden question set and score routing accuracy",
		Long: `Replay the golden question set through the router and score each
question on three tiers: exact arguments, semantically equivalent arguments,
and tool-only.

Fast mode stops after routing. Full mode also fetches the routed data and
generates an answer per question; --llm-judge additionally grades each answer
on a 1-10 scale (full mode only).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runMode := eval.Mode(mode)
			if !runMode.Valid() {
				return &UsageError{Message: fmt.Sprintf("invalid mode %q (expected fast or full)", mode)}
			}
			if llmJudge && runMode != eval.ModeFull {
				return &UsageError{Message: "--llm-judge requires --mode full"}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if goldenPath == "" {
				goldenPath = cfg.Eval.GoldenFile
			}
			if outputDir == "" {
				outputDir = cfg.Eval.OutputDir
			}
			if !cmd.Flags().Changed("compress") && cfg.Eval.Compress != nil {
				compress = *cfg.Eval.Compress
			}

			questions, err := golden.LoadFile(goldenPath)
			if err != nil {
				return fmt.Errorf("loading golden questions: %w", err)
			}
			questions = golden.Slice(questions, start, limit)
			if len(questions) == 0 {
				return fmt.Errorf("no questions selected (start %d, limit %d)", start, limit)
			}

			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("loading tool catalog: %w", err)
			}

			opts := []eval.Option{
				eval.WithDelay(time.Duration(cfg.Eval.DelayMs) * time.Millisecond),
				eval.WithSymbol(cfg.Eval.Symbol),
				eval.WithProgress(func(index, total int, r eval.Result) {
					status := "✅"
					if !r.OverallCorrect() {
						status = "❌"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s %s → %s\n", //nolint:errcheck
						index+1, total, status, r.QuestionID, r.ActualTool)
				}),
			}
			if runMode == eval.ModeFull {
				market, err := newMarketClient(cfg)
				if err != nil {
					return err
				}
				opts = append(opts, eval.WithAnswerPipeline(market, answer.New(client, cfg.LLM.AnswerModel)))
			}
			if llmJudge {
				opts = append(opts, eval.WithJudge(judge.New(client, cfg.LLM.JudgeModel)))
			}

			rt := router.New(client, cat, cfg.LLM.RouterModel)
			outcome, err := eval.New(rt, cat, opts...).Run(cmd.Context(), runMode, questions)
			if err != nil {
				return err
			}
			outcome.Model = cfg.LLM.RouterModel

			artifactPath, err := eval.WriteArtifact(outcome, outputDir, compress)
			if err != nil {
				return fmt.Errorf("writing artifact: %w", err)
			}

			if !noPersist {
				store, err := storage.Open(cfg.Storage.Path, false)
				if err != nil {
					return fmt.Errorf("opening run history: %w", err)
				}
				defer store.Close() //nolint:errcheck
				if err := store.SaveOutcome(cmd.Context(), outcome, artifactPath); err != nil {
					return fmt.Errorf("recording run: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n") //nolint:errcheck
			reporting.RenderSummary(cmd.OutOrStdout(), outcome)
			fmt.Fprintf(cmd.OutOrStdout(), "Results saved to: %s\n", artifactPath) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "fast", "Evaluation mode: fast (routing only) or full (fetch + answer)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Evaluate at most N questions (0 = all)")
	cmd.Flags().IntVar(&start, "start", 0, "Skip the first N questions")
	cmd.Flags().BoolVar(&llmJudge, "llm-judge", false, "Grade generated answers with an LLM judge (requires --mode full)")
	cmd.Flags().StringVar(&goldenPath, "golden", "", "Golden question file (default: from config)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for the run artifact (default: from config)")
	cmd.Flags().BoolVar(&compress, "compress", false, "Gzip the run artifact")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "Skip recording the run in the history database")

	return cmd
}
