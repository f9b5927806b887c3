package eval

import (
	"testing"
	"time"

	"github.com/finsight-ai/finsight/internal/judge"
	"github.com/stretchr/testify/require"
)

func sampleOutcome() *Outcome {
	results := []Result{
		{QuestionID: "q-001", ToolMatch: true, ExactArgsMatch: true, SemanticArgsMatch: true, LatencyMs: 120},
		{QuestionID: "q-002", ToolMatch: true, SemanticArgsMatch: true, LatencyMs: 80,
			Quality: &judge.QualityScore{Accuracy: 9, Completeness: 8, Relevance: 9, Clarity: 7, Overall: 8}},
		{QuestionID: "q-003", Error: "routing output is not a valid decision", LatencyMs: 40},
	}
	return &Outcome{
		RunID:     "run-1",
		Mode:      ModeFull,
		Timestamp: time.Date(2026, 8, 28, 14, 3, 22, 0, time.UTC),
		Summary:   Summarize(results),
		Results:   results,
	}
}

func TestArtifactName(t *testing.T) {
	ts := time.Date(2026, 8, 28, 14, 3, 22, 0, time.UTC)
	require.Equal(t, "eval_fast_2026-08-28T14-03-22Z.json", ArtifactName(ModeFast, ts, false))
	require.Equal(t, "eval_full_2026-08-28T14-03-22Z.json.gz", ArtifactName(ModeFull, ts, true))
}

func TestWriteAndReadArtifact(t *testing.T) {
	dir := t.TempDir()
	outcome := sampleOutcome()

	path, err := WriteArtifact(outcome, dir, false)
	require.NoError(t, err)

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, outcome.RunID, loaded.RunID)
	require.Len(t, loaded.Results, 3)
	require.Equal(t, outcome.Summary.SemanticAccuracy, loaded.Summary.SemanticAccuracy)
}

func TestWriteAndReadArtifact_Compressed(t *testing.T) {
	dir := t.TempDir()
	outcome := sampleOutcome()

	path, err := WriteArtifact(outcome, dir, true)
	require.NoError(t, err)
	require.Contains(t, path, ".json.gz")

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, outcome.RunID, loaded.RunID)
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		require.Equal(t, 0, s.Total)
		require.Nil(t, s.Quality)
	})

	t.Run("tiers counted independently", func(t *testing.T) {
		s := Summarize(sampleOutcome().Results)
		require.Equal(t, 3, s.Total)
		require.InDelta(t, 66.666, s.ToolAccuracy, 0.01)
		require.InDelta(t, 33.333, s.ExactAccuracy, 0.01)
		require.InDelta(t, 66.666, s.SemanticAccuracy, 0.01)
		require.Equal(t, 1, s.Errors)
		require.Equal(t, int64(80), s.AvgLatencyMs)
	})

	t.Run("quality summary", func(t *testing.T) {
		s := Summarize(sampleOutcome().Results)
		require.NotNil(t, s.Quality)
		require.Equal(t, 1, s.Quality.Judged)
		require.Equal(t, 8.0, s.Quality.MeanOverall)
		require.Equal(t, 9.0, s.Quality.MeanAccuracy)
		require.Equal(t, QualityDistribution{Excellent: 1}, s.Quality.Distribution)
		// A single judged answer gets no confidence interval.
		require.Nil(t, s.Quality.BootstrapCI)
	})

	t.Run("distribution buckets", func(t *testing.T) {
		results := []Result{
			{Quality: &judge.QualityScore{Overall: 10}},
			{Quality: &judge.QualityScore{Overall: 8}},
			{Quality: &judge.QualityScore{Overall: 7}},
			{Quality: &judge.QualityScore{Overall: 6}},
			{Quality: &judge.QualityScore{Overall: 5}},
			{Quality: &judge.QualityScore{Overall: 1}},
		}
		s := Summarize(results)
		require.Equal(t, QualityDistribution{Excellent: 2, Good: 2, Poor: 2}, s.Quality.Distribution)
		require.NotNil(t, s.Quality.BootstrapCI)
	})
}
