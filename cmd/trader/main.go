package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/store"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := store.LoadConfig("config.yaml")
	must(err)
	creds, err := store.LoadCredentials(cfg)
	must(err)

	compressOldLogs(ctx)

	broker := initializeBroker(creds)
	strat, err := initializeStrategy(ctx, cfg, creds, broker)
	must(err)

	settings := types.StrategySettings{
		Symbol:      cfg.Symbol,
		Timeframe:   cfg.Timeframe,
		RiskProfile: cfg.Risk,
		MagicNumber: cfg.MagicNumber,
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Trader started",
		"symbol", cfg.Symbol,
		"timeframe", cfg.Timeframe,
		"poll_seconds", cfg.PollSeconds,
		"auto_execute", cfg.AutoExecute,
	)
	if !cfg.AutoExecute {
		logger.Warn(ctx, "Auto execution disabled - signals will be sized but never sent")
	}

	runCycle(ctx, strat, settings, cfg.AutoExecute)

	for {
		select {
		case <-tick.C:
			runCycle(ctx, strat, settings, cfg.AutoExecute)
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			shutdown(broker)
			return
		case <-ctx.Done():
			shutdown(broker)
			return
		}
	}
}

func runCycle(ctx context.Context, strat interfaces.Strategy, settings types.StrategySettings, autoExecute bool) {
	result, err := strat.RunCycle(ctx, settings, autoExecute)
	if err != nil {
		logger.ErrorWithErr(ctx, "Cycle failed", err, "symbol", settings.Symbol)
		return
	}
	b, _ := json.Marshal(result)
	fmt.Println(string(b))
}

func shutdown(broker interfaces.Broker) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := broker.Close(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Broker close failed", err)
	}
	if err := trace.Shutdown(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Tracer shutdown failed", err)
	}
}
