package brokerobs

import (
	"context"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/types"
)

// observableBroker wraps a Broker with logging and tracing
type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{
		broker: broker,
	}
}

func (ob *observableBroker) Connect(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "broker.Connect")
	defer span.End()

	if err := ob.broker.Connect(ctx); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Broker connect failed", err)
		return err
	}
	return nil
}

func (ob *observableBroker) AccountSnapshot(ctx context.Context) (types.AccountSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "broker.AccountSnapshot")
	defer span.End()

	snapshot, err := ob.broker.AccountSnapshot(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Account snapshot failed", err)
		return types.AccountSnapshot{}, err
	}

	logger.DebugSkip(ctx, 1, "Fetched account snapshot",
		"balance", snapshot.Balance,
		"equity", snapshot.Equity,
		"currency", snapshot.Currency,
	)
	return snapshot, nil
}

func (ob *observableBroker) OpenPositions(ctx context.Context) ([]types.PositionSnapshot, error) {
	ctx, span := trace.StartSpan(ctx, "broker.OpenPositions")
	defer span.End()

	positions, err := ob.broker.OpenPositions(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Open positions fetch failed", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Fetched open positions", "count", len(positions))
	return positions, nil
}

func (ob *observableBroker) SymbolSpec(ctx context.Context, symbol string) (types.SymbolSpecification, error) {
	ctx, span := trace.StartSpan(ctx, "broker.SymbolSpec")
	defer span.End()

	spec, err := ob.broker.SymbolSpec(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Symbol specification fetch failed", err, "symbol", symbol)
		return types.SymbolSpecification{}, err
	}
	return spec, nil
}

func (ob *observableBroker) Price(ctx context.Context, symbol string) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Price")
	defer span.End()

	quote, err := ob.broker.Price(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Price fetch failed", err, "symbol", symbol)
		return types.Quote{}, err
	}
	return quote, nil
}

func (ob *observableBroker) SubmitOrder(ctx context.Context, req types.TradeRequest) (types.TradeResult, error) {
	ctx, span := trace.StartSpan(ctx, "broker.SubmitOrder")
	defer span.End()

	result, err := ob.broker.SubmitOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Order submission failed", err,
			"symbol", req.Symbol,
			"action", string(req.Action),
			"volume", req.LotSize,
		)
		return result, err
	}

	tradeID := result.OrderID
	if tradeID == "" {
		tradeID = result.PositionID
	}
	logger.Trade(ctx, req.Symbol, string(req.Action), req.LotSize, tradeID,
		"numeric_code", result.NumericCode,
		"string_code", result.StringCode,
	)
	return result, nil
}

func (ob *observableBroker) Close(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "broker.Close")
	defer span.End()

	return ob.broker.Close(ctx)
}
