package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"forex-ai-trader/internal/types"
)

func validConfig() *Config {
	c := &Config{
		Symbol:    "EURUSD",
		Timeframe: "5min",
		Risk:      types.RiskProfile{RiskPerTrade: 1},
	}
	c.MarketData.Provider = "ALPHAVANTAGE"
	c.MarketData.OutputSize = "compact"
	return c
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := map[string]func(*Config){
		"empty symbol":     func(c *Config) { c.Symbol = "" },
		"short symbol":     func(c *Config) { c.Symbol = "EUR" },
		"bad provider":     func(c *Config) { c.MarketData.Provider = "YAHOO" },
		"bad output size":  func(c *Config) { c.MarketData.OutputSize = "huge" },
		"zero risk":        func(c *Config) { c.Risk.RiskPerTrade = 0 },
		"risk above 100":   func(c *Config) { c.Risk.RiskPerTrade = 150 },
		"negative max":     func(c *Config) { c.Risk.MaxConcurrentTrades = -1 },
	}

	for name, mutate := range cases {
		c := validConfig()
		mutate(c)
		err := c.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("%s: expected ErrConfiguration, got %v", name, err)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "symbol: EURUSD\nmarket_data:\n  provider: ALPHAVANTAGE\nrisk:\n  risk_per_trade_pct: 1.0\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Timeframe != "5min" {
		t.Errorf("Expected default timeframe 5min, got %s", cfg.Timeframe)
	}
	if cfg.PollSeconds != 300 {
		t.Errorf("Expected default poll 300s, got %d", cfg.PollSeconds)
	}
	if cfg.MarketData.OutputSize != "compact" {
		t.Errorf("Expected default output_size compact, got %s", cfg.MarketData.OutputSize)
	}
	if cfg.Advisor.Model != "gemini-1.5-flash-latest" {
		t.Errorf("Unexpected default model %s", cfg.Advisor.Model)
	}
	if cfg.AutoExecute {
		t.Error("Expected auto_execute to default to false")
	}
}

func TestLoadConfigInvalidFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "symbol: EURUSD\nmarket_data:\n  provider: YAHOO\nrisk:\n  risk_per_trade_pct: 1.0\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration, got %v", err)
	}
}

func TestLoadCredentialsRequiresProviderKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("METAAPI_TOKEN", "m")
	t.Setenv("METAAPI_ACCOUNT_ID", "a")
	t.Setenv("METAAPI_APPLICATION_ID", "")
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	t.Setenv("TWELVE_DATA_API_KEY", "")

	cfg := validConfig()
	if _, err := LoadCredentials(cfg); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for missing provider key, got %v", err)
	}

	t.Setenv("ALPHAVANTAGE_API_KEY", "av")
	creds, err := LoadCredentials(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if creds.MetaAPIApplicationID != "forex-ai-trader" {
		t.Errorf("Expected default application id, got %s", creds.MetaAPIApplicationID)
	}
}
