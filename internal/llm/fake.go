package llm

import (
	"context"
	"sync"
)

// FakeClient returns scripted responses in order. Used by tests across the
// router, answer, judge, and eval packages.
type FakeClient struct {
	mu        sync.Mutex
	responses []FakeResponse
	calls     []Request
}

// FakeResponse is one scripted reply.
type FakeResponse struct {
	Text string
	Err  error
}

// NewFakeClient creates a client that replays the given responses. Once the
// script is exhausted the last response repeats.
func NewFakeClient(responses ...FakeResponse) *FakeClient {
	return &FakeClient{responses: responses}
}

// Complete implements [Client].
func (f *FakeClient) Complete(_ context.Context, req Request) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, req)

	if len(f.responses) == 0 {
		return Response{}, nil
	}
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	r := f.responses[idx]
	if r.Err != nil {
		return Response{}, r.Err
	}
	return Response{Text: r.Text}, nil
}

// Calls returns the requests seen so far.
func (f *FakeClient) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.calls))
	copy(out, f.calls)
	return out
}
