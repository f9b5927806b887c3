package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/finsight-ai/finsight/internal/cache"
	"github.com/finsight-ai/finsight/internal/llm"
	"github.com/finsight-ai/finsight/internal/marketdata"
)

const summarySystemPrompt = `You are a financial analyst writing a brief for a dashboard.
You will receive a JSON snapshot of one company's prices, fundamentals, news,
and insider trades. Write a Markdown summary with short sections for
performance, financial health, and notable activity.

Rules:
- Use only numbers present in the snapshot. Never invent figures.
- If a section of the snapshot has an "error" field, note that its data is
  unavailable and move on.
- Keep it under 300 words.`

// markdown renderer shared by all summaries. GFM so the model can use tables.
var summaryMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Summarizer produces an LLM-written company overview from a market
// snapshot. Summaries are expensive (one full snapshot plus one large model
// call), so finished Markdown is cached per symbol.
type Summarizer struct {
	client llm.Client
	model  string
	market marketdata.Service
	store  cache.Store
	ttl    time.Duration
}

// NewSummarizer creates a Summarizer that caches rendered summaries under
// the given TTL.
func NewSummarizer(client llm.Client, model string, market marketdata.Service, store cache.Store, ttl time.Duration) *Summarizer {
	return &Summarizer{client: client, model: model, market: market, store: store, ttl: ttl}
}

// Summarize returns the company summary for symbol, serving from cache when
// a fresh one exists.
func (s *Summarizer) Summarize(ctx context.Context, symbol string) (*SummaryResponse, error) {
	key := "summary:" + symbol

	if cached, found, err := s.store.Get(ctx, key); err == nil && found {
		return s.respond(symbol, string(cached), true)
	}

	snapshot := marketdata.FetchSnapshot(ctx, s.market, symbol)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	resp, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      summarySystemPrompt,
		Prompt:      fmt.Sprintf("Snapshot for %s:\n\n%s", symbol, data),
		Temperature: 0.3,
		MaxTokens:   1024,
	})
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	// A write failure only costs a regeneration next time.
	if err := s.store.Set(ctx, key, []byte(resp.Text), s.ttl); err != nil {
		slog.Warn("failed to cache summary", "symbol", symbol, "error", err)
	}
	return s.respond(symbol, resp.Text, false)
}

// Invalidate drops the cached summary for symbol.
func (s *Summarizer) Invalidate(ctx context.Context, symbol string) error {
	return s.store.Delete(ctx, "summary:"+symbol)
}

func (s *Summarizer) respond(symbol, markdown string, cached bool) (*SummaryResponse, error) {
	var buf bytes.Buffer
	if err := summaryMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("rendering summary: %w", err)
	}
	return &SummaryResponse{
		Symbol:   symbol,
		Markdown: markdown,
		HTML:     buf.String(),
		Cached:   cached,
	}, nil
}
