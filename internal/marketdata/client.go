package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	apiKeyHeader      = "X-API-Key"
	defaultHTTPTimout = 30 * time.Second
)

// Client is the HTTP implementation of [Service] against the financial data
// API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a market-data client for the given API root.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prices implements [Service].
func (c *Client) Prices(ctx context.Context, symbol string, args PricesArgs) Result[[]PricePoint] {
	q := url.Values{"symbol": {symbol}}
	if args.Range != "" {
		q.Set("range", args.Range)
	}
	return get[[]PricePoint](ctx, c, "/v1/prices", q)
}

// Fundamentals implements [Service].
func (c *Client) Fundamentals(ctx context.Context, symbol string, args FundamentalsArgs) Result[[]Fundamental] {
	q := url.Values{"symbol": {symbol}}
	if args.Metric != "" {
		q.Set("metric", args.Metric)
	}
	if args.Limit > 0 {
		q.Set("limit", strconv.Itoa(args.Limit))
	}
	return get[[]Fundamental](ctx, c, "/v1/financials", q)
}

// News implements [Service].
func (c *Client) News(ctx context.Context, symbol string, args NewsArgs) Result[[]NewsItem] {
	q := url.Values{"symbol": {symbol}}
	if args.Limit > 0 {
		q.Set("limit", strconv.Itoa(args.Limit))
	}
	return get[[]NewsItem](ctx, c, "/v1/news", q)
}

// InsiderTrades implements [Service].
func (c *Client) InsiderTrades(ctx context.Context, symbol string, args InsiderTradesArgs) Result[[]InsiderTrade] {
	q := url.Values{"symbol": {symbol}}
	if args.Limit > 0 {
		q.Set("limit", strconv.Itoa(args.Limit))
	}
	return get[[]InsiderTrade](ctx, c, "/v1/insider-trades", q)
}

// get performs one API request and wraps the outcome in a Result. Transport
// and decode failures become Fail values, never panics or sentinel probing.
func get[T any](ctx context.Context, c *Client, path string, query url.Values) Result[T] {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Fail[T](fmt.Sprintf("building request: %v", err))
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Fail[T](fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Fail[T](fmt.Sprintf("reading response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return Fail[T](fmt.Sprintf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		return Fail[T](fmt.Sprintf("decoding response: %v", err))
	}
	return Ok(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
