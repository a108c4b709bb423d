package interfaces

import (
	"context"

	"forex-ai-trader/internal/types"
)

// SentimentProvider supplies aggregated headline sentiment for a symbol.
// Implementations must degrade to a neutral reading on failure.
type SentimentProvider interface {
	GetSentiment(ctx context.Context, symbol string) (types.NewsSentiment, error)
}
