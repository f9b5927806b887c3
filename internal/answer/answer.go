// Package answer turns fetched market data into a grounded natural-language
// answer to the user's question.
package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finsight-ai/finsight/internal/llm"
)

// Generator produces answers from fetched data via one LLM call.
type Generator struct {
	client llm.Client
	model  string
}

// New creates a Generator using the given completion client and model ID.
func New(client llm.Client, model string) *Generator {
	return &Generator{client: client, model: model}
}

const systemPrompt = `You answer financial questions about a single stock.

Rules:
- Use ONLY the facts in the provided data. Never invent numbers, dates, or events.
- If the question asks for more than the data covers (for example 15 years of
  history when only 5 were fetched), say so explicitly and answer from what is
  available.
- Be concise. Markdown formatting is allowed.`

// Generate answers the question from the data the chosen tool fetched. The
// output is free text; no structural validation is performed.
func (g *Generator) Generate(ctx context.Context, question, tool string, data json.RawMessage) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Data fetched by %s:\n%s\n", tool, string(data))

	resp, err := g.client.Complete(ctx, llm.Request{
		Model:       g.model,
		System:      systemPrompt,
		Prompt:      b.String(),
		Temperature: 0.3,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
