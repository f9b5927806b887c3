package eval

import (
	"context"
	"testing"

	"github.com/finsight-ai/finsight/internal/answer"
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/golden"
	"github.com/finsight-ai/finsight/internal/judge"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/marketdata"
	"github.com/finsight-ai/finsight/internal/router"
	"github.com/stretchr/testify/require"
)

var testQuestions = []golden.Question{
	{
		ID:           "q-001",
		Text:         "How has the stock performed over the last month?",
		ExpectedTool: "getPrices",
		ExpectedArgs: map[string]any{"range": "30d"},
		Strictness:   golden.StrictnessFlexible,
	},
	{
		ID:           "q-002",
		Text:         "What was revenue over the last 4 quarters?",
		ExpectedTool: "getFinancials",
		ExpectedArgs: map[string]any{"metric": "revenue", "limit": float64(4)},
		Strictness:   golden.StrictnessFlexible,
	},
}

func newEvaluator(t *testing.T, routerFake *llm.FakeClient, opts ...Option) *Evaluator {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	r := router.New(routerFake, cat, "router-model")
	opts = append([]Option{WithDelay(0)}, opts...)
	return New(r, cat, opts...)
}

func TestRun_FastAllCorrect(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: `{"tool": "getPrices", "arguments": {"range": "30d"}}`},
		llm.FakeResponse{Text: `{"tool": "getFinancials", "arguments": {"metric": "revenue", "limit": 4}}`},
	)
	e := newEvaluator(t, fake)

	outcome, err := e.Run(context.Background(), ModeFast, testQuestions)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)
	require.NotEmpty(t, outcome.RunID)
	require.Equal(t, ModeFast, outcome.Mode)

	// An all-correct run scores exactly 100.0 in every tier.
	require.Equal(t, 100.0, outcome.Summary.ToolAccuracy)
	require.Equal(t, 100.0, outcome.Summary.ExactAccuracy)
	require.Equal(t, 100.0, outcome.Summary.SemanticAccuracy)
}

func TestRun_FastAllWrong(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: `{"tool": "getNews", "arguments": {"limit": 5}}`},
		llm.FakeResponse{Text: `{"tool": "getPrices", "arguments": {"range": "7d"}}`},
	)
	e := newEvaluator(t, fake)

	outcome, err := e.Run(context.Background(), ModeFast, testQuestions)
	require.NoError(t, err)
	require.Equal(t, 0.0, outcome.Summary.ToolAccuracy)
	require.Equal(t, 0.0, outcome.Summary.ExactAccuracy)
	require.Equal(t, 0.0, outcome.Summary.SemanticAccuracy)
}

func TestRun_ParseFailureContinuesBatch(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: "I would fetch some prices for you."},
		llm.FakeResponse{Text: `{"tool": "getFinancials", "arguments": {"metric": "sales", "limit": 6}}`},
	)
	e := newEvaluator(t, fake)

	outcome, err := e.Run(context.Background(), ModeFast, testQuestions)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)

	first := outcome.Results[0]
	require.False(t, first.ToolMatch)
	require.False(t, first.OverallCorrect())
	require.NotEmpty(t, first.Error)
	require.Equal(t, "I would fetch some prices for you.", first.RawOutput)

	// The second question still ran and matched semantically.
	second := outcome.Results[1]
	require.True(t, second.ToolMatch)
	require.False(t, second.ExactArgsMatch)
	require.True(t, second.SemanticArgsMatch)

	require.Equal(t, 50.0, outcome.Summary.SemanticAccuracy)
	require.Equal(t, 1, outcome.Summary.Errors)
}

func TestRun_UnknownToolRecorded(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: `{"tool": "getWeather", "arguments": {}}`},
		llm.FakeResponse{Text: `{"tool": "getFinancials", "arguments": {"metric": "revenue", "limit": 4}}`},
	)
	e := newEvaluator(t, fake)

	outcome, err := e.Run(context.Background(), ModeFast, testQuestions)
	require.NoError(t, err)

	first := outcome.Results[0]
	require.Equal(t, "getWeather", first.ActualTool)
	require.False(t, first.ToolMatch)
	require.Contains(t, first.Error, "not in the catalog")
}

func TestRun_FullModeWithJudge(t *testing.T) {
	routerAndMore := llm.NewFakeClient(
		// q-001: route, answer, judge
		llm.FakeResponse{Text: `{"tool": "getPrices", "arguments": {"range": "30d"}}`},
	)
	answerFake := llm.NewFakeClient(llm.FakeResponse{Text: "The stock rose 4% over the month."})
	judgeFake := llm.NewFakeClient(llm.FakeResponse{
		Text: `{"accuracy": 9, "completeness": 8, "relevance": 9, "clarity": 8, "overall": 9, "reasoning": "good"}`,
	})

	e := newEvaluator(t, routerAndMore,
		WithAnswerPipeline(&marketdata.FakeService{}, answer.New(answerFake, "answer-model")),
		WithJudge(judge.New(judgeFake, "judge-model")),
		WithSymbol("MSFT"),
	)

	outcome, err := e.Run(context.Background(), ModeFull, testQuestions[:1])
	require.NoError(t, err)
	require.True(t, outcome.Judged)

	r := outcome.Results[0]
	require.True(t, r.OverallCorrect())
	require.Equal(t, "The stock rose 4% over the month.", r.Answer)
	require.NotNil(t, r.Quality)
	require.Equal(t, 9, r.Quality.Overall)

	qs := outcome.Summary.Quality
	require.NotNil(t, qs)
	require.Equal(t, 1, qs.Judged)
	require.Equal(t, 9.0, qs.MeanOverall)
	require.Equal(t, 1, qs.Distribution.Excellent)
}

func TestRun_FullModeFetchFailureRecorded(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: `{"tool": "getPrices", "arguments": {"range": "30d"}}`},
	)
	e := newEvaluator(t, fake,
		WithAnswerPipeline(&marketdata.FakeService{PricesErr: "upstream down"}, answer.New(llm.NewFakeClient(), "m")),
	)

	outcome, err := e.Run(context.Background(), ModeFull, testQuestions[:1])
	require.NoError(t, err)

	r := outcome.Results[0]
	// Routing still scored; the fetch failure is recorded, not fatal.
	require.True(t, r.ToolMatch)
	require.Contains(t, r.Error, "upstream down")
	require.Empty(t, r.Answer)
}

func TestRun_FullModeSkipsAnswerOnRoutingMiss(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: `{"tool": "getNews", "arguments": {"limit": 5}}`},
	)
	answerFake := llm.NewFakeClient(llm.FakeResponse{Text: "should never be used"})
	e := newEvaluator(t, fake,
		WithAnswerPipeline(&marketdata.FakeService{}, answer.New(answerFake, "m")),
	)

	outcome, err := e.Run(context.Background(), ModeFull, testQuestions[:1])
	require.NoError(t, err)
	require.Empty(t, outcome.Results[0].Answer)
	require.Empty(t, answerFake.Calls())
}

func TestRun_Validation(t *testing.T) {
	e := newEvaluator(t, llm.NewFakeClient())

	t.Run("invalid mode", func(t *testing.T) {
		_, err := e.Run(context.Background(), Mode("medium"), nil)
		require.ErrorContains(t, err, "invalid mode")
	})

	t.Run("full mode without pipeline", func(t *testing.T) {
		_, err := e.Run(context.Background(), ModeFull, nil)
		require.ErrorContains(t, err, "answer pipeline")
	})

	t.Run("judge with fast mode", func(t *testing.T) {
		judged := newEvaluator(t, llm.NewFakeClient(), WithJudge(judge.New(llm.NewFakeClient(), "m")))
		_, err := judged.Run(context.Background(), ModeFast, nil)
		require.ErrorContains(t, err, "full mode")
	})
}

func TestRun_ProgressCallback(t *testing.T) {
	fake := llm.NewFakeClient(
		llm.FakeResponse{Text: `{"tool": "getPrices", "arguments": {"range": "30d"}}`},
		llm.FakeResponse{Text: `{"tool": "getFinancials", "arguments": {"metric": "revenue", "limit": 4}}`},
	)

	var seen []string
	e := newEvaluator(t, fake, WithProgress(func(i, total int, r Result) {
		require.Equal(t, 2, total)
		seen = append(seen, r.QuestionID)
	}))

	_, err := e.Run(context.Background(), ModeFast, testQuestions)
	require.NoError(t, err)
	require.Equal(t, []string{"q-001", "q-002"}, seen)
}
