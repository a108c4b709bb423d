package marketdata

import (
	"fmt"
	"sort"
	"time"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/store"
	"forex-ai-trader/internal/types"
)

// New builds the configured provider. Provider selection happens here
// once; callers only ever see the MarketDataSource interface.
func New(cfg *store.Config, creds store.Credentials) (interfaces.MarketDataSource, error) {
	switch cfg.MarketData.Provider {
	case "ALPHAVANTAGE":
		return NewAlphaVantage(creds.AlphaVantageAPIKey), nil
	case "TWELVEDATA":
		return NewTwelveData(creds.TwelveDataAPIKey), nil
	default:
		return nil, fmt.Errorf("%w: unknown market data provider '%s'", store.ErrConfiguration, cfg.MarketData.Provider)
	}
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp '%s'", value)
}

func sortByTime(candles []types.Candle) {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
}
