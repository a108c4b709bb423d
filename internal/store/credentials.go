package store

import (
	"fmt"
	"os"
)

// Credentials holds the secrets read from the environment. godotenv is
// loaded by the caller before this runs.
type Credentials struct {
	GeminiAPIKey         string
	MetaAPIToken         string
	MetaAPIAccountID     string
	MetaAPIApplicationID string
	AlphaVantageAPIKey   string
	TwelveDataAPIKey     string
}

// LoadCredentials reads credentials from the environment and fails fast
// on anything the selected providers require.
func LoadCredentials(cfg *Config) (Credentials, error) {
	creds := Credentials{
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		MetaAPIToken:         os.Getenv("METAAPI_TOKEN"),
		MetaAPIAccountID:     os.Getenv("METAAPI_ACCOUNT_ID"),
		MetaAPIApplicationID: os.Getenv("METAAPI_APPLICATION_ID"),
		AlphaVantageAPIKey:   os.Getenv("ALPHAVANTAGE_API_KEY"),
		TwelveDataAPIKey:     os.Getenv("TWELVE_DATA_API_KEY"),
	}

	if creds.MetaAPIApplicationID == "" {
		creds.MetaAPIApplicationID = "forex-ai-trader"
	}

	if creds.GeminiAPIKey == "" {
		return Credentials{}, fmt.Errorf("%w: GEMINI_API_KEY is required", ErrConfiguration)
	}
	if creds.MetaAPIToken == "" {
		return Credentials{}, fmt.Errorf("%w: METAAPI_TOKEN is required", ErrConfiguration)
	}
	if creds.MetaAPIAccountID == "" {
		return Credentials{}, fmt.Errorf("%w: METAAPI_ACCOUNT_ID is required", ErrConfiguration)
	}
	if cfg.MarketData.Provider == "ALPHAVANTAGE" && creds.AlphaVantageAPIKey == "" {
		return Credentials{}, fmt.Errorf("%w: ALPHAVANTAGE_API_KEY must be set when market_data.provider is ALPHAVANTAGE", ErrConfiguration)
	}
	if cfg.MarketData.Provider == "TWELVEDATA" && creds.TwelveDataAPIKey == "" {
		return Credentials{}, fmt.Errorf("%w: TWELVE_DATA_API_KEY must be set when market_data.provider is TWELVEDATA", ErrConfiguration)
	}

	return creds, nil
}
