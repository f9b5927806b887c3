package marketdata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// PricesArgs matches the getPrices tool's declared arguments.
type PricesArgs struct {
	Range string `mapstructure:"range"`
}

// FundamentalsArgs matches the getFinancials tool's declared arguments.
type FundamentalsArgs struct {
	Metric string `mapstructure:"metric"`
	Limit  int    `mapstructure:"limit"`
}

// NewsArgs matches the getNews tool's declared arguments.
type NewsArgs struct {
	Limit int `mapstructure:"limit"`
}

// InsiderTradesArgs matches the getInsiderTrades tool's declared arguments.
type InsiderTradesArgs struct {
	Limit int `mapstructure:"limit"`
}

// Service exposes one fetch per cataloged tool.
type Service interface {
	Prices(ctx context.Context, symbol string, args PricesArgs) Result[[]PricePoint]
	Fundamentals(ctx context.Context, symbol string, args FundamentalsArgs) Result[[]Fundamental]
	News(ctx context.Context, symbol string, args NewsArgs) Result[[]NewsItem]
	InsiderTrades(ctx context.Context, symbol string, args InsiderTradesArgs) Result[[]InsiderTrade]
}

// Call dispatches a routed decision to the matching Service method, decoding
// the loose argument map into the tool's typed arguments. The returned
// payload is JSON-marshalable data for the answer generator.
func Call(ctx context.Context, svc Service, symbol, tool string, args map[string]any) Result[json.RawMessage] {
	switch tool {
	case "getPrices":
		var a PricesArgs
		if err := mapstructure.WeakDecode(args, &a); err != nil {
			return Fail[json.RawMessage](fmt.Sprintf("decoding %s arguments: %v", tool, err))
		}
		return marshalResult(svc.Prices(ctx, symbol, a))
	case "getFinancials":
		var a FundamentalsArgs
		if err := mapstructure.WeakDecode(args, &a); err != nil {
			return Fail[json.RawMessage](fmt.Sprintf("decoding %s arguments: %v", tool, err))
		}
		return marshalResult(svc.Fundamentals(ctx, symbol, a))
	case "getNews":
		var a NewsArgs
		if err := mapstructure.WeakDecode(args, &a); err != nil {
			return Fail[json.RawMessage](fmt.Sprintf("decoding %s arguments: %v", tool, err))
		}
		return marshalResult(svc.News(ctx, symbol, a))
	case "getInsiderTrades":
		var a InsiderTradesArgs
		if err := mapstructure.WeakDecode(args, &a); err != nil {
			return Fail[json.RawMessage](fmt.Sprintf("decoding %s arguments: %v", tool, err))
		}
		return marshalResult(svc.InsiderTrades(ctx, symbol, a))
	default:
		return Fail[json.RawMessage](fmt.Sprintf("no fetch for tool %q", tool))
	}
}

func marshalResult[T any](r Result[T]) Result[json.RawMessage] {
	if !r.OK {
		return Fail[json.RawMessage](r.Err)
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return Fail[json.RawMessage](fmt.Sprintf("encoding payload: %v", err))
	}
	return Ok(json.RawMessage(data))
}
