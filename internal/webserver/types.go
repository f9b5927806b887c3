package webserver

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the JSON error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
	Symbol   string `json:"symbol,omitempty"`
}

// AskResponse carries the routed tool, the arguments the model chose, and
// the generated answer.
type AskResponse struct {
	Symbol    string         `json:"symbol"`
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Answer    string         `json:"answer"`
	LatencyMs int64          `json:"latency_ms"`
}

// SummaryResponse carries the LLM-written company summary in both source and
// rendered form.
type SummaryResponse struct {
	Symbol   string `json:"symbol"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Cached   bool   `json:"cached"`
}
