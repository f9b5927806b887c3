// Package router maps a free-text financial question to one tool from the
// catalog plus its arguments, using a single LLM call.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/llm"
)

// Decision is the routing output: one tool name and its argument map.
type Decision struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`

	// Latency is how long the underlying model call took.
	Latency time.Duration `json:"-"`
	// RawOutput is the unmodified model text, kept for evaluation artifacts.
	RawOutput string `json:"-"`
}

// ParseError means the model's output could not be read as a routing
// decision. It is never retried; the caller scores the question as failed.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("routing output is not a valid decision: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrUnknownTool is returned when the model picks a tool name that is not in
// the catalog.
var ErrUnknownTool = errors.New("routed tool is not in the catalog")

// ErrEmptyQuestion is returned for blank input.
var ErrEmptyQuestion = errors.New("question is empty")

// Router performs the single-call tool selection.
type Router struct {
	client  llm.Client
	catalog *catalog.Catalog
	model   string
}

// New creates a Router using the given completion client and model ID.
func New(client llm.Client, cat *catalog.Catalog, model string) *Router {
	return &Router{client: client, catalog: cat, model: model}
}

// Route picks a tool and arguments for the question. Argument values are
// passed through as the model produced them; constraint violations are
// reported by catalog.Validate but deliberately not corrected here.
func (r *Router) Route(ctx context.Context, question string) (*Decision, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	start := time.Now()
	resp, err := r.client.Complete(ctx, llm.Request{
		Model:       r.model,
		System:      r.systemPrompt(),
		Prompt:      question,
		Temperature: 0,
		MaxTokens:   256,
	})
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("routing call failed: %w", err)
	}

	decision, err := parseDecision(resp.Text)
	if err != nil {
		return nil, err
	}
	decision.Latency = latency
	decision.RawOutput = resp.Text

	if _, ok := r.catalog.Lookup(decision.Tool); !ok {
		return decision, fmt.Errorf("%w: %q", ErrUnknownTool, decision.Tool)
	}

	return decision, nil
}

// parseDecision extracts the JSON decision object from model output. Models
// sometimes wrap JSON in code fences or prose, so we cut to the outermost
// braces before decoding.
func parseDecision(text string) (*Decision, error) {
	candidate := text
	if start := strings.Index(candidate, "{"); start >= 0 {
		if end := strings.LastIndex(candidate, "}"); end > start {
			candidate = candidate[start : end+1]
		}
	}

	var decision Decision
	if err := json.Unmarshal([]byte(candidate), &decision); err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	if decision.Tool == "" {
		return nil, &ParseError{Raw: text, Err: errors.New("missing tool field")}
	}
	if decision.Arguments == nil {
		decision.Arguments = map[string]any{}
	}
	return &decision, nil
}
