// Package llm provides the completion client used by the router, the answer
// generator, and the judge.
package llm

import "context"

// Request is a single chat-completion request.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Usage reports token accounting for one call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the model's reply.
type Response struct {
	Text  string
	Usage Usage
}

// Client is a completion service. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
