package interfaces

import (
	"context"

	"forex-ai-trader/internal/types"
)

// Advisor turns a market context into a trade signal. Implementations
// must degrade unreadable model output into a hold signal rather than
// returning an error.
type Advisor interface {
	Advise(ctx context.Context, payload types.AnalysisPayload) (types.TradeSignal, error)
}
