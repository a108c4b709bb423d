package strategyobs

import (
	"context"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/types"
)

// observableStrategy wraps a Strategy with logging and tracing
type observableStrategy struct {
	strategy interfaces.Strategy
}

var _ interfaces.Strategy = (*observableStrategy)(nil)

// Wrap wraps a strategy with observability middleware
func Wrap(strategy interfaces.Strategy) interfaces.Strategy {
	return &observableStrategy{
		strategy: strategy,
	}
}

func (os *observableStrategy) RunCycle(ctx context.Context, settings types.StrategySettings, autoExecute bool) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "strategy.RunCycle")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting strategy cycle",
		"symbol", settings.Symbol,
		"timeframe", settings.Timeframe,
		"auto_execute", autoExecute,
	)

	result, err := os.strategy.RunCycle(ctx, settings, autoExecute)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Strategy cycle failed", err, "symbol", settings.Symbol)
		return nil, err
	}

	if result.SkippedReason != "" {
		logger.InfoSkip(ctx, 1, "Strategy cycle skipped trade",
			"symbol", settings.Symbol,
			"action", string(result.Signal.Action),
			"confidence", result.Signal.Confidence,
			"reason", result.SkippedReason,
		)
	} else {
		logger.InfoSkip(ctx, 1, "Strategy cycle executed trade",
			"symbol", settings.Symbol,
			"action", string(result.Signal.Action),
			"lot_size", result.LotSize,
			"trade_id", result.ExecutedTradeID,
		)
	}
	return result, nil
}
