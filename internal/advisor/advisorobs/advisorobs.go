package advisorobs

import (
	"context"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/types"
)

// observableAdvisor wraps an Advisor with logging and tracing
type observableAdvisor struct {
	advisor interfaces.Advisor
}

var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap wraps an advisor with observability middleware
func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{
		advisor: advisor,
	}
}

func (oa *observableAdvisor) Advise(ctx context.Context, payload types.AnalysisPayload) (types.TradeSignal, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Advise")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting trade signal",
		"symbol", payload.Symbol,
		"timeframe", payload.Timeframe,
		"candles", len(payload.Candles),
	)

	signal, err := oa.advisor.Advise(ctx, payload)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Advisor call failed", err, "symbol", payload.Symbol)
		return types.TradeSignal{}, err
	}

	logger.Signal(ctx, payload.Symbol, string(signal.Action), signal.Confidence, signal.Rationale,
		"stop_loss_pips", signal.StopLossPips,
		"take_profit_pips", signal.TakeProfitPips,
	)

	return signal, nil
}
