package eval

import (
	"time"

	"github.com/finsight-ai/finsight/internal/judge"
	"github.com/finsight-ai/finsight/internal/statistics"
)

// Mode selects how much of the pipeline a run exercises.
type Mode string

const (
	// ModeFast runs routing only.
	ModeFast Mode = "fast"
	// ModeFull runs routing, fetch, and answer generation, optionally judged.
	ModeFull Mode = "full"
)

// Valid reports whether the mode is one of the known values.
func (m Mode) Valid() bool {
	return m == ModeFast || m == ModeFull
}

// Result is the scored outcome of one golden question. Created once per
// question and never mutated afterwards.
type Result struct {
	QuestionID        string              `json:"question_id"`
	Question          string              `json:"question"`
	Category          string              `json:"category,omitempty"`
	ExpectedTool      string              `json:"expected_tool"`
	ExpectedArgs      map[string]any      `json:"expected_arguments,omitempty"`
	ActualTool        string              `json:"actual_tool,omitempty"`
	ActualArgs        map[string]any      `json:"actual_arguments,omitempty"`
	RawOutput         string              `json:"raw_output,omitempty"`
	ToolMatch         bool                `json:"tool_match"`
	ExactArgsMatch    bool                `json:"exact_args_match"`
	SemanticArgsMatch bool                `json:"semantic_args_match"`
	LatencyMs         int64               `json:"latency_ms"`
	Answer            string              `json:"answer,omitempty"`
	Quality           *judge.QualityScore `json:"quality,omitempty"`
	Error             string              `json:"error,omitempty"`
}

// OverallCorrect reports whether the routing counts as correct: the right
// tool with at least semantically acceptable arguments.
func (r *Result) OverallCorrect() bool {
	return r.ToolMatch && r.SemanticArgsMatch
}

// Outcome is the complete artifact of one evaluation run.
type Outcome struct {
	RunID     string    `json:"run_id"`
	Mode      Mode      `json:"mode"`
	Judged    bool      `json:"judged"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model"`
	Summary   Summary   `json:"summary"`
	Results   []Result  `json:"results"`
}

// Summary aggregates pass counts into per-tier accuracy percentages.
type Summary struct {
	Total            int     `json:"total"`
	ToolMatches      int     `json:"tool_matches"`
	ExactMatches     int     `json:"exact_matches"`
	SemanticMatches  int     `json:"semantic_matches"`
	ToolAccuracy     float64 `json:"tool_accuracy"`
	ExactAccuracy    float64 `json:"exact_accuracy"`
	SemanticAccuracy float64 `json:"semantic_accuracy"`
	Errors           int     `json:"errors"`
	AvgLatencyMs     int64   `json:"avg_latency_ms"`
	DurationMs       int64   `json:"duration_ms"`

	Quality *QualitySummary `json:"quality,omitempty"`
}

// QualitySummary aggregates judge scores: a plain arithmetic mean per axis
// plus a three-bucket distribution over overall scores.
type QualitySummary struct {
	Judged           int                            `json:"judged"`
	MeanAccuracy     float64                        `json:"mean_accuracy"`
	MeanCompleteness float64                        `json:"mean_completeness"`
	MeanRelevance    float64                        `json:"mean_relevance"`
	MeanClarity      float64                        `json:"mean_clarity"`
	MeanOverall      float64                        `json:"mean_overall"`
	Distribution     QualityDistribution            `json:"distribution"`
	BootstrapCI      *statistics.ConfidenceInterval `json:"bootstrap_ci,omitempty"`
}

// QualityDistribution buckets overall scores: excellent >= 8, good >= 6,
// poor below.
type QualityDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Poor      int `json:"poor"`
}

// Summarize computes the aggregate view over a result set.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	if s.Total == 0 {
		return s
	}

	var latencySum int64
	for i := range results {
		r := &results[i]
		if r.ToolMatch {
			s.ToolMatches++
		}
		if r.ExactArgsMatch {
			s.ExactMatches++
		}
		if r.SemanticArgsMatch {
			s.SemanticMatches++
		}
		if r.Error != "" {
			s.Errors++
		}
		latencySum += r.LatencyMs
	}

	total := float64(s.Total)
	s.ToolAccuracy = float64(s.ToolMatches) / total * 100
	s.ExactAccuracy = float64(s.ExactMatches) / total * 100
	s.SemanticAccuracy = float64(s.SemanticMatches) / total * 100
	s.AvgLatencyMs = latencySum / int64(s.Total)

	s.Quality = summarizeQuality(results)
	return s
}

func summarizeQuality(results []Result) *QualitySummary {
	var (
		qs       QualitySummary
		overalls []float64
		sums     [5]float64
	)

	for i := range results {
		q := results[i].Quality
		if q == nil {
			continue
		}
		qs.Judged++
		sums[0] += float64(q.Accuracy)
		sums[1] += float64(q.Completeness)
		sums[2] += float64(q.Relevance)
		sums[3] += float64(q.Clarity)
		sums[4] += float64(q.Overall)
		overalls = append(overalls, float64(q.Overall))

		switch {
		case q.Overall >= 8:
			qs.Distribution.Excellent++
		case q.Overall >= 6:
			qs.Distribution.Good++
		default:
			qs.Distribution.Poor++
		}
	}

	if qs.Judged == 0 {
		return nil
	}

	n := float64(qs.Judged)
	qs.MeanAccuracy = sums[0] / n
	qs.MeanCompleteness = sums[1] / n
	qs.MeanRelevance = sums[2] / n
	qs.MeanClarity = sums[3] / n
	qs.MeanOverall = sums[4] / n

	if qs.Judged >= 2 {
		ci := statistics.BootstrapCI(overalls, 0.95)
		qs.BootstrapCI = &ci
	}
	return &qs
}
