package interfaces

import (
	"context"

	"forex-ai-trader/internal/types"
)

// Strategy runs one end-to-end decision cycle.
type Strategy interface {
	RunCycle(ctx context.Context, settings types.StrategySettings, autoExecute bool) (*types.CycleResult, error)
}
