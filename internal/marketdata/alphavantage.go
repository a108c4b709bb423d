package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"forex-ai-trader/internal/api"
	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/types"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantage fetches FX intraday candles from the AlphaVantage API.
type AlphaVantage struct {
	client *api.Client
	apiKey string
}

var _ interfaces.MarketDataSource = (*AlphaVantage)(nil)

func NewAlphaVantage(apiKey string) *AlphaVantage {
	return &AlphaVantage{
		client: api.NewClient(
			api.WithBaseURL(alphaVantageBaseURL),
			api.WithTimeout(15*time.Second),
		),
		apiKey: apiKey,
	}
}

func (a *AlphaVantage) Fetch(ctx context.Context, symbol, interval string, size int) ([]types.Candle, error) {
	if len(symbol) < 6 {
		return nil, fmt.Errorf("alphavantage: symbol '%s' is not a currency pair", symbol)
	}

	outputSize := "compact"
	if size > 100 {
		outputSize = "full"
	}

	params := url.Values{}
	params.Set("function", "FX_INTRADAY")
	params.Set("from_symbol", symbol[:3])
	params.Set("to_symbol", symbol[3:6])
	params.Set("interval", interval)
	params.Set("outputsize", outputSize)
	params.Set("apikey", a.apiKey)

	resp, err := a.client.GET(ctx, "/query?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("alphavantage request failed: %w", err)
	}

	return parseAlphaVantage(resp.Body, interval)
}

func parseAlphaVantage(body []byte, interval string) ([]types.Candle, error) {
	if msg := gjson.GetBytes(body, "Error Message"); msg.Exists() {
		return nil, fmt.Errorf("alphavantage error: %s", msg.String())
	}

	seriesKey := fmt.Sprintf("Time Series FX (%s)", interval)
	series := gjson.GetBytes(body, seriesKey)
	if !series.Exists() || !series.IsObject() {
		return nil, fmt.Errorf("unexpected alphavantage payload: missing '%s'", seriesKey)
	}

	candles := make([]types.Candle, 0, len(series.Map()))
	var parseErr error
	series.ForEach(func(key, value gjson.Result) bool {
		ts, err := parseTimestamp(key.String())
		if err != nil {
			parseErr = fmt.Errorf("unexpected alphavantage payload: %w", err)
			return false
		}
		candles = append(candles, types.Candle{
			Time:   ts,
			Open:   value.Get(`1\. open`).Float(),
			High:   value.Get(`2\. high`).Float(),
			Low:    value.Get(`3\. low`).Float(),
			Close:  value.Get(`4\. close`).Float(),
			Volume: value.Get(`5\. volume`).Float(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sortByTime(candles)
	return candles, nil
}
