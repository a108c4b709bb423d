package metaapi

import (
	"context"
	"errors"
	"fmt"

	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/types"
)

// ErrOrderRejected reports a trade the terminal acknowledged but did not
// accept. Orders are never retried automatically.
var ErrOrderRejected = errors.New("order rejected by broker")

// defaultSlippagePoints bounds market order slippage in points.
const defaultSlippagePoints = 10

// successCodes are the MT5 return codes treated as an accepted order.
// 10008 placed, 10009 done, 10010 partial fill, 10025 no changes.
var successCodes = map[int]struct{}{
	0:     {},
	10008: {},
	10009: {},
	10010: {},
	10025: {},
}

// SubmitOrder places a market order with absolute stop loss and take
// profit prices derived from the request's pip distances.
func (g *Gateway) SubmitOrder(ctx context.Context, req types.TradeRequest) (types.TradeResult, error) {
	ctx, span := trace.StartSpan(ctx, "metaapi-submit-order")
	defer span.End()

	if err := g.Connect(ctx); err != nil {
		return types.TradeResult{}, err
	}

	var actionType string
	switch req.Action {
	case types.ActionBuy:
		actionType = "ORDER_TYPE_BUY"
	case types.ActionSell:
		actionType = "ORDER_TYPE_SELL"
	default:
		return types.TradeResult{}, fmt.Errorf("cannot submit order with action %q", req.Action)
	}

	spec, err := g.SymbolSpec(ctx, req.Symbol)
	if err != nil {
		return types.TradeResult{}, err
	}
	quote, err := g.Price(ctx, req.Symbol)
	if err != nil {
		return types.TradeResult{}, err
	}

	// Pips convert through the symbol point. Entry is the ask for buys
	// and the bid for sells; stops sit on the losing side of entry.
	point := spec.Point
	entry := quote.Ask
	stopLoss := entry - req.StopLossPips*point
	takeProfit := entry + req.TakeProfitPips*point
	if req.Action == types.ActionSell {
		entry = quote.Bid
		stopLoss = entry + req.StopLossPips*point
		takeProfit = entry - req.TakeProfitPips*point
	}

	body := map[string]any{
		"actionType": actionType,
		"symbol":     req.Symbol,
		"volume":     req.LotSize,
		"magic":      req.MagicNumber,
		"slippage":   defaultSlippagePoints,
	}
	if req.StopLossPips > 0 {
		body["stopLoss"] = stopLoss
	}
	if req.TakeProfitPips > 0 {
		body["takeProfit"] = takeProfit
	}
	if req.Comment != "" {
		body["comment"] = req.Comment
	}

	logger.Info(ctx, "Submitting market order",
		"symbol", req.Symbol,
		"action", string(req.Action),
		"volume", req.LotSize,
		"stop_loss", stopLoss,
		"take_profit", takeProfit,
	)

	resp, err := g.client.POST(ctx, g.accountPath("trade"), body)
	if err != nil {
		return types.TradeResult{}, fmt.Errorf("trade request failed: %w", err)
	}

	var result types.TradeResult
	if err := resp.ParseJSON(&result); err != nil {
		return types.TradeResult{}, fmt.Errorf("failed to decode trade result: %w", err)
	}

	if _, ok := successCodes[result.NumericCode]; !ok {
		return result, fmt.Errorf("%w: code %d (%s): %s",
			ErrOrderRejected, result.NumericCode, result.StringCode, result.Message)
	}
	return result, nil
}
