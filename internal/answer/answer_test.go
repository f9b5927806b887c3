package answer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	fake := llm.NewFakeClient(llm.FakeResponse{Text: "Revenue grew 12% over the last 4 quarters.\n"})
	g := New(fake, "test-model")

	data := json.RawMessage(`[{"period":"2026-Q2","metric":"revenue","value":1000}]`)
	out, err := g.Generate(context.Background(), "How is revenue trending?", "getFinancials", data)
	require.NoError(t, err)
	require.Equal(t, "Revenue grew 12% over the last 4 quarters.", out)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	require.Contains(t, calls[0].Prompt, "How is revenue trending?")
	require.Contains(t, calls[0].Prompt, "getFinancials")
	require.Contains(t, calls[0].Prompt, `"metric":"revenue"`)
	require.Contains(t, calls[0].System, "Never invent numbers")
}

func TestGenerate_EmptyQuestion(t *testing.T) {
	g := New(llm.NewFakeClient(), "test-model")
	_, err := g.Generate(context.Background(), " ", "getPrices", nil)
	require.Error(t, err)
}

func TestGenerate_ClientError(t *testing.T) {
	fake := llm.NewFakeClient(llm.FakeResponse{Err: errors.New("timeout")})
	g := New(fake, "test-model")
	_, err := g.Generate(context.Background(), "how?", "getPrices", nil)
	require.ErrorContains(t, err, "answer generation failed")
}
