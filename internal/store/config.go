package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"forex-ai-trader/internal/types"
)

// ErrConfiguration marks invalid or missing configuration. It is
// returned before any network call is made.
var ErrConfiguration = errors.New("invalid configuration")

type Config struct {
	Symbol      string `yaml:"symbol"`
	Timeframe   string `yaml:"timeframe"`
	PollSeconds int    `yaml:"poll_seconds"`
	AutoExecute bool   `yaml:"auto_execute"`
	MagicNumber int    `yaml:"magic_number"`

	MarketData struct {
		Provider   string `yaml:"provider"`    // ALPHAVANTAGE or TWELVEDATA
		OutputSize string `yaml:"output_size"` // compact or full
	} `yaml:"market_data"`

	Risk types.RiskProfile `yaml:"risk"`

	Advisor struct {
		Model           string  `yaml:"model"`
		Temperature     float64 `yaml:"temperature"`
		TopP            float64 `yaml:"top_p"`
		MaxOutputTokens int     `yaml:"max_output_tokens"`
	} `yaml:"advisor"`

	News struct {
		Enabled      bool `yaml:"enabled"`
		MaxArticles  int  `yaml:"max_articles"`
		CacheMinutes int  `yaml:"cache_minutes"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("%w: symbol cannot be empty", ErrConfiguration)
	}
	if len(c.Symbol) < 6 {
		return fmt.Errorf("%w: symbol '%s' is not a currency pair", ErrConfiguration, c.Symbol)
	}
	if c.MarketData.Provider != "ALPHAVANTAGE" && c.MarketData.Provider != "TWELVEDATA" {
		return fmt.Errorf("%w: market_data.provider must be 'ALPHAVANTAGE' or 'TWELVEDATA', got '%s'", ErrConfiguration, c.MarketData.Provider)
	}
	if c.MarketData.OutputSize != "compact" && c.MarketData.OutputSize != "full" {
		return fmt.Errorf("%w: market_data.output_size must be 'compact' or 'full', got '%s'", ErrConfiguration, c.MarketData.OutputSize)
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade > 100 {
		return fmt.Errorf("%w: risk.risk_per_trade_pct must be between 0-100, got %.2f", ErrConfiguration, c.Risk.RiskPerTrade)
	}
	if c.Risk.MaxConcurrentTrades < 0 {
		return fmt.Errorf("%w: risk.max_concurrent_trades cannot be negative", ErrConfiguration)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Timeframe == "" {
		c.Timeframe = "5min"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 300
	}
	if c.MarketData.Provider == "" {
		c.MarketData.Provider = "ALPHAVANTAGE"
	}
	if c.MarketData.OutputSize == "" {
		c.MarketData.OutputSize = "compact"
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "gemini-1.5-flash-latest"
	}
	if c.Advisor.Temperature == 0 {
		c.Advisor.Temperature = 0.3
	}
	if c.Advisor.TopP == 0 {
		c.Advisor.TopP = 0.8
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 15
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
