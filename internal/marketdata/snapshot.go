package marketdata

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Snapshot is the full per-ticker view a dashboard page needs. Each section
// carries its own Result so one failed upstream call does not blank the page.
type Snapshot struct {
	Symbol        string                 `json:"symbol"`
	Prices        Result[[]PricePoint]   `json:"prices"`
	Fundamentals  Result[[]Fundamental]  `json:"fundamentals"`
	News          Result[[]NewsItem]     `json:"news"`
	InsiderTrades Result[[]InsiderTrade] `json:"insider_trades"`
}

// FetchSnapshot fans the four fetches out in parallel. Failures stay inside
// their section's Result; the group itself never errors.
func FetchSnapshot(ctx context.Context, svc Service, symbol string) Snapshot {
	snap := Snapshot{Symbol: symbol}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Prices = svc.Prices(ctx, symbol, PricesArgs{Range: "30d"})
		return nil
	})
	g.Go(func() error {
		snap.Fundamentals = svc.Fundamentals(ctx, symbol, FundamentalsArgs{Metric: "revenue", Limit: 4})
		return nil
	})
	g.Go(func() error {
		snap.News = svc.News(ctx, symbol, NewsArgs{Limit: 5})
		return nil
	})
	g.Go(func() error {
		snap.InsiderTrades = svc.InsiderTrades(ctx, symbol, InsiderTradesArgs{Limit: 10})
		return nil
	})
	_ = g.Wait()

	return snap
}
