package marketdata

import (
	"context"
	"time"
)

// FakeService returns canned data, or a scripted failure per section. Shared
// by the eval, webserver, and CLI tests.
type FakeService struct {
	PricesErr        string
	FundamentalsErr  string
	NewsErr          string
	InsiderTradesErr string
}

var fakeDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

// Prices implements [Service].
func (f *FakeService) Prices(_ context.Context, _ string, args PricesArgs) Result[[]PricePoint] {
	if f.PricesErr != "" {
		return Fail[[]PricePoint](f.PricesErr)
	}
	return Ok([]PricePoint{
		{Date: fakeDate, Open: 100, Close: 104, High: 105, Low: 99, Volume: 1_000_000},
		{Date: fakeDate.AddDate(0, 0, 1), Open: 104, Close: 101, High: 106, Low: 100, Volume: 900_000},
	})
}

// Fundamentals implements [Service].
func (f *FakeService) Fundamentals(_ context.Context, _ string, args FundamentalsArgs) Result[[]Fundamental] {
	if f.FundamentalsErr != "" {
		return Fail[[]Fundamental](f.FundamentalsErr)
	}
	out := make([]Fundamental, 0, args.Limit)
	for i := 0; i < args.Limit; i++ {
		out = append(out, Fundamental{
			Period: fakeDate.AddDate(0, -3*i, 0).Format("2006-01"),
			Metric: args.Metric,
			Value:  1000 - float64(i*50),
			Unit:   "USD millions",
		})
	}
	return Ok(out)
}

// News implements [Service].
func (f *FakeService) News(_ context.Context, _ string, args NewsArgs) Result[[]NewsItem] {
	if f.NewsErr != "" {
		return Fail[[]NewsItem](f.NewsErr)
	}
	out := make([]NewsItem, 0, args.Limit)
	for i := 0; i < args.Limit; i++ {
		out = append(out, NewsItem{
			Title:       "Quarterly results announced",
			Source:      "Newswire",
			URL:         "https://example.com/news",
			PublishedAt: fakeDate.AddDate(0, 0, -i),
		})
	}
	return Ok(out)
}

// InsiderTrades implements [Service].
func (f *FakeService) InsiderTrades(_ context.Context, _ string, args InsiderTradesArgs) Result[[]InsiderTrade] {
	if f.InsiderTradesErr != "" {
		return Fail[[]InsiderTrade](f.InsiderTradesErr)
	}
	return Ok([]InsiderTrade{
		{Insider: "J. Doe", Relation: "CFO", Type: "sell", Shares: 5000, Value: 520_000, Date: fakeDate},
	})
}
