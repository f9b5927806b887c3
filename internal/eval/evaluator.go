// Package eval replays the golden question set through the router and scores
// exact, semantic, and tool-only accuracy. Full mode also fetches data,
// generates answers, and optionally grades them with the judge.
//
// The run is a straight-line sequential loop: a fixed delay between
// questions respects the upstream rate limit, no call is retried, and no
// per-question failure aborts the batch.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finsight-ai/finsight/internal/answer"
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/golden"
	"github.com/finsight-ai/finsight/internal/judge"
	"github.com/finsight-ai/finsight/internal/marketdata"
	"github.com/finsight-ai/finsight/internal/router"
)

// ProgressFunc receives each result as it is produced.
type ProgressFunc func(index, total int, r Result)

// Evaluator drives a batch run.
type Evaluator struct {
	router    *router.Router
	cat       *catalog.Catalog
	matcher   *Matcher
	generator *answer.Generator
	judge     *judge.Judge
	fetcher   marketdata.Service

	symbol   string
	delay    time.Duration
	progress ProgressFunc
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithDelay sets the fixed pause between questions. Applied unconditionally,
// success or failure.
func WithDelay(d time.Duration) Option {
	return func(e *Evaluator) {
		e.delay = d
	}
}

// WithSymbol sets the ticker full-mode fetches run against.
func WithSymbol(symbol string) Option {
	return func(e *Evaluator) {
		e.symbol = symbol
	}
}

// WithAnswerPipeline enables full mode: fetch via svc, answer via gen.
func WithAnswerPipeline(svc marketdata.Service, gen *answer.Generator) Option {
	return func(e *Evaluator) {
		e.fetcher = svc
		e.generator = gen
	}
}

// WithJudge enables LLM-judged quality scoring of generated answers.
func WithJudge(j *judge.Judge) Option {
	return func(e *Evaluator) {
		e.judge = j
	}
}

// WithProgress registers a per-result callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Evaluator) {
		e.progress = fn
	}
}

// New creates an Evaluator.
func New(r *router.Router, cat *catalog.Catalog, opts ...Option) *Evaluator {
	e := &Evaluator{
		router:  r,
		cat:     cat,
		matcher: NewMatcher(cat),
		symbol:  "AAPL",
		delay:   time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates the questions in order and returns the complete outcome.
// mode must be valid and judging requires full mode; both are checked by the
// CLI before this point, but Run revalidates for library callers.
func (e *Evaluator) Run(ctx context.Context, mode Mode, questions []golden.Question) (*Outcome, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid mode %q", mode)
	}
	if mode == ModeFast && e.judge != nil {
		return nil, fmt.Errorf("judge requires full mode")
	}
	if mode == ModeFull && (e.fetcher == nil || e.generator == nil) {
		return nil, fmt.Errorf("full mode requires the answer pipeline")
	}

	started := time.Now()
	results := make([]Result, 0, len(questions))

	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := e.evaluateOne(ctx, mode, q)
		results = append(results, res)

		if e.progress != nil {
			e.progress(i, len(questions), res)
		}

		// Unconditional rate-limit pause, skipped only after the last item.
		if i < len(questions)-1 && e.delay > 0 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	summary := Summarize(results)
	summary.DurationMs = time.Since(started).Milliseconds()

	return &Outcome{
		RunID:     uuid.NewString(),
		Mode:      mode,
		Judged:    e.judge != nil,
		Timestamp: started.UTC(),
		Summary:   summary,
		Results:   results,
	}, nil
}

// evaluateOne runs a single question end to end. Every failure lands in the
// result's error field; nothing here is fatal to the batch.
func (e *Evaluator) evaluateOne(ctx context.Context, mode Mode, q golden.Question) Result {
	res := Result{
		QuestionID:   q.ID,
		Question:     q.Text,
		Category:     q.Category,
		ExpectedTool: q.ExpectedTool,
		ExpectedArgs: q.ExpectedArgs,
	}

	decision, err := e.router.Route(ctx, q.Text)
	if decision != nil {
		res.ActualTool = decision.Tool
		res.ActualArgs = decision.Arguments
		res.RawOutput = decision.RawOutput
		res.LatencyMs = decision.Latency.Milliseconds()
	}
	if err != nil {
		var parseErr *router.ParseError
		switch {
		case errors.As(err, &parseErr):
			// Parse failures keep the raw content for the artifact.
			res.Error = err.Error()
			res.RawOutput = parseErr.Raw
		case errors.Is(err, router.ErrUnknownTool):
			res.Error = err.Error()
		default:
			res.Error = err.Error()
		}
		slog.Debug("routing failed", "question", q.ID, "error", err)
		return res
	}

	match := e.matcher.Match(q, decision.Tool, decision.Arguments)
	res.ToolMatch = match.ToolMatch
	res.ExactArgsMatch = match.ExactArgsMatch
	res.SemanticArgsMatch = match.SemanticArgsMatch

	if issues := e.cat.Validate(decision.Tool, decision.Arguments); len(issues) > 0 {
		// Out-of-constraint values pass through uncorrected; log only.
		slog.Debug("routed arguments violate catalog constraints", "question", q.ID, "issues", issues)
	}

	if mode != ModeFull || !res.OverallCorrect() {
		return res
	}

	args := e.cat.FillDefaults(decision.Tool, decision.Arguments)
	fetched := marketdata.Call(ctx, e.fetcher, e.symbol, decision.Tool, args)
	if !fetched.OK {
		res.Error = fmt.Sprintf("fetch failed: %s", fetched.Err)
		return res
	}

	text, err := e.generator.Generate(ctx, q.Text, decision.Tool, fetched.Data)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Answer = text

	if e.judge != nil {
		score, err := e.judge.Score(ctx, q.Text, text, fetched.Data)
		if err != nil {
			res.Error = err.Error()
			return res
		}
		res.Quality = score
	}

	return res
}
