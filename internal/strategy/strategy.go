// Package strategy runs the end-to-end decision cycle: fetch market
// data, compute indicators, ask the advisor, gate the signal, size the
// position and hand it to the broker.
package strategy

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/risk"
	"forex-ai-trader/internal/store"
	"forex-ai-trader/internal/ta"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/tradelog"
	"forex-ai-trader/internal/types"
)

// confidenceThreshold is the minimum advisor confidence that may reach
// the broker. Signals below it are reported but never executed.
const confidenceThreshold = 0.55

// advisorCandleWindow bounds the candle history sent to the advisor.
// Indicators still use the full fetched series.
const advisorCandleWindow = 50

const (
	skipHold          = "AI recommended hold"
	skipLowConfidence = "Confidence below execution threshold"
	skipAutoExecute   = "Auto execution disabled"
	skipMaxTrades     = "Maximum concurrent trades reached"
)

// Orchestrator wires the market data source, advisor and broker into
// one decision loop. It holds no cycle state; every call to RunCycle is
// independent.
type Orchestrator struct {
	cfg     *store.Config
	market  interfaces.MarketDataSource
	advisor interfaces.Advisor
	broker  interfaces.Broker
	news    interfaces.SentimentProvider // optional
}

var _ interfaces.Strategy = (*Orchestrator)(nil)

func New(cfg *store.Config, market interfaces.MarketDataSource, advisor interfaces.Advisor, broker interfaces.Broker, news interfaces.SentimentProvider) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		market:  market,
		advisor: advisor,
		broker:  broker,
		news:    news,
	}
}

func (o *Orchestrator) candleCount() int {
	if o.cfg.MarketData.OutputSize == "full" {
		return 5000
	}
	return 100
}

// RunCycle executes one decision cycle. A skipped trade is a normal
// outcome, not an error; errors mean the cycle could not reach a
// decision at all.
func (o *Orchestrator) RunCycle(ctx context.Context, settings types.StrategySettings, autoExecute bool) (*types.CycleResult, error) {
	ctx, span := trace.StartSpan(ctx, "strategy-cycle")
	defer span.End()

	var (
		candles []types.Candle
		account types.AccountSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candles, err = o.market.Fetch(gctx, settings.Symbol, settings.Timeframe, o.candleCount())
		return err
	})
	g.Go(func() error {
		var err error
		account, err = o.broker.AccountSnapshot(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("data fetch: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("data fetch: no candles returned for %s", settings.Symbol)
	}

	indicators := ta.Snapshot(candles)

	payload := types.AnalysisPayload{
		Symbol:      settings.Symbol,
		Timeframe:   settings.Timeframe,
		Candles:     tailCandles(candles, advisorCandleWindow),
		Indicators:  indicators,
		Account:     account,
		RiskProfile: settings.RiskProfile,
	}
	if o.news != nil {
		// Sentiment degrades to neutral internally; a hard failure here
		// just leaves the payload without a news section.
		if sentiment, err := o.news.GetSentiment(ctx, settings.Symbol); err == nil {
			payload.NewsSentiment = &sentiment
		}
	}

	signal, err := o.advisor.Advise(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}

	result := &types.CycleResult{Signal: signal}

	if signal.Action == types.ActionHold {
		result.SkippedReason = skipHold
		o.journalSignal(ctx, settings.Symbol, signal, result.SkippedReason)
		return result, nil
	}
	if signal.Confidence < confidenceThreshold {
		result.SkippedReason = skipLowConfidence
		o.journalSignal(ctx, settings.Symbol, signal, result.SkippedReason)
		return result, nil
	}

	if limit := settings.RiskProfile.MaxConcurrentTrades; limit > 0 {
		open, err := o.broker.OpenPositions(ctx)
		if err != nil {
			return nil, fmt.Errorf("broker: %w", err)
		}
		if countOwnPositions(open, settings.MagicNumber) >= limit {
			result.SkippedReason = skipMaxTrades
			o.journalSignal(ctx, settings.Symbol, signal, result.SkippedReason)
			return result, nil
		}
	}

	spec, err := o.broker.SymbolSpec(ctx, settings.Symbol)
	if err != nil {
		return nil, fmt.Errorf("broker: %w", err)
	}
	lotSize, err := risk.Size(account.Balance, settings.RiskProfile.RiskPerTrade, signal.StopLossPips, spec)
	if err != nil {
		return nil, fmt.Errorf("position sizing: %w", err)
	}
	result.LotSize = lotSize

	if !autoExecute {
		result.SkippedReason = skipAutoExecute
		o.journalSignal(ctx, settings.Symbol, signal, result.SkippedReason)
		return result, nil
	}

	req := types.TradeRequest{
		Symbol:         settings.Symbol,
		Action:         signal.Action,
		LotSize:        lotSize,
		StopLossPips:   signal.StopLossPips,
		TakeProfitPips: signal.TakeProfitPips,
		MagicNumber:    settings.MagicNumber,
		Comment:        "forex-ai-trader",
	}
	trade, err := o.broker.SubmitOrder(ctx, req)
	if err != nil {
		o.journalSignal(ctx, settings.Symbol, signal, "")
		return nil, fmt.Errorf("execution: %w", err)
	}

	result.ExecutedTradeID = trade.OrderID
	if result.ExecutedTradeID == "" {
		result.ExecutedTradeID = trade.PositionID
	}

	o.journalSignal(ctx, settings.Symbol, signal, "")
	if err := tradelog.AppendTrade(req, trade); err != nil {
		logger.Warn(ctx, "Failed to journal trade", "error", err)
	}
	return result, nil
}

func (o *Orchestrator) journalSignal(ctx context.Context, symbol string, signal types.TradeSignal, skippedReason string) {
	if err := tradelog.AppendSignal(symbol, signal, skippedReason); err != nil {
		logger.Warn(ctx, "Failed to journal signal", "error", err)
	}
}

func countOwnPositions(positions []types.PositionSnapshot, magic int) int {
	n := 0
	for _, p := range positions {
		if p.Magic == magic {
			n++
		}
	}
	return n
}

func tailCandles(candles []types.Candle, n int) []types.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
