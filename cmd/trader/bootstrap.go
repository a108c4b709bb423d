package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"forex-ai-trader/internal/advisor"
	"forex-ai-trader/internal/advisor/advisorobs"
	"forex-ai-trader/internal/broker/brokerobs"
	"forex-ai-trader/internal/broker/metaapi"
	"forex-ai-trader/internal/interfaces"
	"forex-ai-trader/internal/logger"
	"forex-ai-trader/internal/marketdata"
	"forex-ai-trader/internal/news"
	"forex-ai-trader/internal/store"
	"forex-ai-trader/internal/strategy"
	"forex-ai-trader/internal/strategy/strategyobs"
	"forex-ai-trader/internal/trace"
	"forex-ai-trader/internal/tradelog"
)

// initializeSystem initializes env, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// compressOldLogs compresses old journal files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeBroker builds the MetaApi gateway with observability
func initializeBroker(creds store.Credentials) interfaces.Broker {
	gw := metaapi.New(metaapi.Params{
		Token:         creds.MetaAPIToken,
		AccountID:     creds.MetaAPIAccountID,
		ApplicationID: creds.MetaAPIApplicationID,
	})
	return brokerobs.Wrap(gw)
}

// initializeAdvisor builds the Gemini advisor with observability
func initializeAdvisor(cfg *store.Config, creds store.Credentials) interfaces.Advisor {
	return advisorobs.Wrap(advisor.NewGemini(cfg, creds))
}

// initializeNews builds the sentiment provider, nil when disabled
func initializeNews(ctx context.Context, cfg *store.Config) interfaces.SentimentProvider {
	if !cfg.News.Enabled {
		logger.Info(ctx, "News sentiment disabled in config")
		return nil
	}
	return news.NewService(news.ServiceConfigFrom(cfg))
}

// initializeStrategy wires the orchestrator with observability
func initializeStrategy(ctx context.Context, cfg *store.Config, creds store.Credentials, broker interfaces.Broker) (interfaces.Strategy, error) {
	market, err := marketdata.New(cfg, creds)
	if err != nil {
		return nil, err
	}

	orch := strategy.New(cfg, market, initializeAdvisor(cfg, creds), broker, initializeNews(ctx, cfg))
	return strategyobs.Wrap(orch), nil
}
