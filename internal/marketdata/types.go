// Package marketdata fetches quotes, fundamentals, news, and insider-trade
// data from the upstream financial API. Every call returns a tagged Result so
// callers branch on an explicit discriminant instead of probing for error
// keys.
package marketdata

import "time"

// Result is the uniform success/failure envelope for every fetch.
type Result[T any] struct {
	OK   bool   `json:"ok"`
	Data T      `json:"data,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Ok wraps a successful payload.
func Ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

// Fail wraps a failure message.
func Fail[T any](msg string) Result[T] {
	return Result[T]{OK: false, Err: msg}
}

// PricePoint is one day of price history.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume int64     `json:"volume"`
}

// Fundamental is one reported value of a fundamental metric.
type Fundamental struct {
	Period string  `json:"period"` // e.g. "2026-Q2"
	Metric string  `json:"metric"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
}

// NewsItem is one headline.
type NewsItem struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// InsiderTrade is one insider filing.
type InsiderTrade struct {
	Insider  string    `json:"insider"`
	Relation string    `json:"relation"`
	Type     string    `json:"type"` // "buy" or "sell"
	Shares   int64     `json:"shares"`
	Value    float64   `json:"value"`
	Date     time.Time `json:"date"`
}
