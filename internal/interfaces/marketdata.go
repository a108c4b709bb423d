package interfaces

import (
	"context"

	"forex-ai-trader/internal/types"
)

// MarketDataSource fetches normalized, time-sorted candle history for a
// symbol from one provider.
type MarketDataSource interface {
	Fetch(ctx context.Context, symbol, interval string, size int) ([]types.Candle, error)
}
