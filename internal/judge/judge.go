// Package judge scores generated answers with a second LLM call. Scores are
// advisory only; nothing gates on them.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finsight-ai/finsight/internal/llm"
)

// QualityScore is the judge's verdict: four axes plus an overall score, each
// bounded to [1,10], with free-text reasoning.
type QualityScore struct {
	Accuracy     int    `json:"accuracy"`
	Completeness int    `json:"completeness"`
	Relevance    int    `json:"relevance"`
	Clarity      int    `json:"clarity"`
	Overall      int    `json:"overall"`
	Reasoning    string `json:"reasoning"`
}

// Judge runs LLM-as-judge quality scoring.
type Judge struct {
	client llm.Client
	model  string
}

// New creates a Judge using the given completion client and model ID.
func New(client llm.Client, model string) *Judge {
	return &Judge{client: client, model: model}
}

const rubric = `You are grading an answer to a financial question.

Score each axis from 1 (unusable) to 10 (excellent):
- accuracy: every claim is supported by the provided data
- completeness: the answer covers what the question asked
- relevance: the answer stays on the question, no padding
- clarity: the answer is easy to read and well organized

Respond with a single JSON object and nothing else:
{"accuracy": N, "completeness": N, "relevance": N, "clarity": N, "overall": N, "reasoning": "..."}`

// Score grades the answer against the question and the data it was grounded
// in. A response that fails to parse is returned as an error; callers record
// it on the result and continue.
func (j *Judge) Score(ctx context.Context, question, answer string, data json.RawMessage) (*QualityScore, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Data the answer must be grounded in:\n%s\n\n", string(data))
	fmt.Fprintf(&b, "Answer to grade:\n%s\n", answer)

	resp, err := j.client.Complete(ctx, llm.Request{
		Model:       j.model,
		System:      rubric,
		Prompt:      b.String(),
		Temperature: 0,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	score, err := parseScore(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("judge output unparsable: %w", err)
	}
	return score, nil
}

func parseScore(text string) (*QualityScore, error) {
	candidate := text
	if start := strings.Index(candidate, "{"); start >= 0 {
		if end := strings.LastIndex(candidate, "}"); end > start {
			candidate = candidate[start : end+1]
		}
	}

	var score QualityScore
	if err := json.Unmarshal([]byte(candidate), &score); err != nil {
		return nil, err
	}

	score.Accuracy = clamp(score.Accuracy)
	score.Completeness = clamp(score.Completeness)
	score.Relevance = clamp(score.Relevance)
	score.Clarity = clamp(score.Clarity)
	score.Overall = clamp(score.Overall)
	return &score, nil
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
