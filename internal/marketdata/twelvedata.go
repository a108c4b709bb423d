package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"forex-ai-trader/internal/api"
	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/types"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

// TwelveData fetches time series candles from the TwelveData API.
type TwelveData struct {
	client *api.Client
	apiKey string
}

var _ interfaces.MarketDataSource = (*TwelveData)(nil)

func NewTwelveData(apiKey string) *TwelveData {
	return &TwelveData{
		client: api.NewClient(
			api.WithBaseURL(twelveDataBaseURL),
			api.WithTimeout(15*time.Second),
		),
		apiKey: apiKey,
	}
}

func (t *TwelveData) Fetch(ctx context.Context, symbol, interval string, size int) ([]types.Candle, error) {
	if size <= 0 {
		size = 100
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("outputsize", strconv.Itoa(size))
	params.Set("apikey", t.apiKey)

	resp, err := t.client.GET(ctx, "/time_series?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("twelvedata request failed: %w", err)
	}

	return parseTwelveData(resp.Body)
}

func parseTwelveData(body []byte) ([]types.Candle, error) {
	if gjson.GetBytes(body, "status").String() == "error" {
		return nil, fmt.Errorf("twelvedata error: %s", gjson.GetBytes(body, "message").String())
	}

	values := gjson.GetBytes(body, "values")
	if !values.IsArray() {
		return nil, fmt.Errorf("unexpected twelvedata payload: missing 'values' array")
	}

	candles := make([]types.Candle, 0, len(values.Array()))
	var parseErr error
	values.ForEach(func(_, entry gjson.Result) bool {
		ts, err := parseTimestamp(entry.Get("datetime").String())
		if err != nil {
			parseErr = fmt.Errorf("unexpected twelvedata payload: %w", err)
			return false
		}
		candles = append(candles, types.Candle{
			Time:   ts,
			Open:   entry.Get("open").Float(),
			High:   entry.Get("high").Float(),
			Low:    entry.Get("low").Float(),
			Close:  entry.Get("close").Float(),
			Volume: entry.Get("volume").Float(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	sortByTime(candles)
	return candles, nil
}
