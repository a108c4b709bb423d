package marketdata

import (
	"testing"
	"time"
)

const alphaVantageSample = `{
  "Meta Data": {"1. Information": "FX Intraday (5min) Time Series"},
  "Time Series FX (5min)": {
    "2024-03-01 10:05:00": {
      "1. open": "1.0805", "2. high": "1.0810", "3. low": "1.0801", "4. close": "1.0808"
    },
    "2024-03-01 10:00:00": {
      "1. open": "1.0800", "2. high": "1.0806", "3. low": "1.0798", "4. close": "1.0805"
    }
  }
}`

const twelveDataSample = `{
  "meta": {"symbol": "EUR/USD", "interval": "5min"},
  "values": [
    {"datetime": "2024-03-01 10:05:00", "open": "1.0805", "high": "1.0810", "low": "1.0801", "close": "1.0808", "volume": "0"},
    {"datetime": "2024-03-01 10:00:00", "open": "1.0800", "high": "1.0806", "low": "1.0798", "close": "1.0805", "volume": "0"}
  ],
  "status": "ok"
}`

func TestParseAlphaVantage(t *testing.T) {
	candles, err := parseAlphaVantage([]byte(alphaVantageSample), "5min")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("Expected 2 candles, got %d", len(candles))
	}
	// Sorted ascending regardless of payload order.
	if !candles[0].Time.Before(candles[1].Time) {
		t.Error("Expected candles sorted ascending by time")
	}
	if candles[0].Open != 1.0800 || candles[0].Close != 1.0805 {
		t.Errorf("First candle fields mismatched: %+v", candles[0])
	}
	// Missing volume field normalizes to zero.
	if candles[0].Volume != 0 {
		t.Errorf("Expected zero volume, got %f", candles[0].Volume)
	}
}

func TestParseAlphaVantageUnexpectedShape(t *testing.T) {
	if _, err := parseAlphaVantage([]byte(`{"Note": "rate limited"}`), "5min"); err == nil {
		t.Error("Expected error for payload without the series object")
	}
	if _, err := parseAlphaVantage([]byte(`{"Error Message": "Invalid API call"}`), "5min"); err == nil {
		t.Error("Expected error for API error payload")
	}
}

func TestParseTwelveData(t *testing.T) {
	candles, err := parseTwelveData([]byte(twelveDataSample))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("Expected 2 candles, got %d", len(candles))
	}
	if !candles[0].Time.Before(candles[1].Time) {
		t.Error("Expected candles sorted ascending by time")
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !candles[0].Time.Equal(want) {
		t.Errorf("Expected first candle at %v, got %v", want, candles[0].Time)
	}
	if candles[1].High != 1.0810 {
		t.Errorf("Expected high 1.0810, got %f", candles[1].High)
	}
}

func TestParseTwelveDataUnexpectedShape(t *testing.T) {
	if _, err := parseTwelveData([]byte(`{"status":"error","message":"symbol not found"}`)); err == nil {
		t.Error("Expected error for API error payload")
	}
	if _, err := parseTwelveData([]byte(`{"values": "nope"}`)); err == nil {
		t.Error("Expected error when values is not an array")
	}
}

func TestParseTimestampFallbacks(t *testing.T) {
	if _, err := parseTimestamp("2024-03-01"); err != nil {
		t.Errorf("Expected date-only timestamp to parse, got %v", err)
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("Expected error for unparseable timestamp")
	}
}
