package ta

import (
	"math"
	"testing"
	"time"

	"forex-ai-trader/internal/types"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	if got := SMA(closes, 5); got != 3 {
		t.Errorf("Expected SMA 3, got %f", got)
	}
	if got := SMA(closes, 3); got != 4 {
		t.Errorf("Expected trailing SMA 4, got %f", got)
	}
}

func TestSMAInsufficientData(t *testing.T) {
	if got := SMA([]float64{1, 2}, 3); got != 0 {
		t.Errorf("Expected 0 for short series, got %f", got)
	}
	if got := SMA(nil, 20); got != 0 {
		t.Errorf("Expected 0 for empty series, got %f", got)
	}
}

func TestEMAConstantSeries(t *testing.T) {
	// EMA over identical values must converge to that value exactly.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 1.2345
	}

	if got := EMA(closes, 12); !almostEqual(got, 1.2345, 1e-9) {
		t.Errorf("Expected EMA of constant series to equal 1.2345, got %f", got)
	}
}

func TestEMAInsufficientData(t *testing.T) {
	if got := EMA([]float64{1, 2, 3}, 12); got != 0 {
		t.Errorf("Expected 0 for short series, got %f", got)
	}
}

func TestEMAFollowsTrend(t *testing.T) {
	// A rising series should pull the EMA above the seed SMA.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	ema := EMA(closes, 12)
	sma := SMA(closes[:12], 12)
	if ema <= sma {
		t.Errorf("Expected EMA %f to exceed seed SMA %f on rising series", ema, sma)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	if got := RSI(closes, 14); got != 100 {
		t.Errorf("Expected RSI 100 when no losses, got %f", got)
	}
}

func TestRSIBounded(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94, 107, 93, 108}

	rsi := RSI(closes, 14)
	if rsi <= 0 || rsi >= 100 {
		t.Errorf("Expected RSI in (0,100), got %f", rsi)
	}
}

func TestRSIInsufficientData(t *testing.T) {
	closes := make([]float64, 14) // needs period+1
	if got := RSI(closes, 14); got != 0 {
		t.Errorf("Expected 0 for short series, got %f", got)
	}
}

func TestATR(t *testing.T) {
	// Constant-range bars with no gaps: ATR equals the bar range.
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 101
		lows[i] = 99
		closes[i] = 100
	}

	if got := ATR(highs, lows, closes, 14); !almostEqual(got, 2, 1e-9) {
		t.Errorf("Expected ATR 2, got %f", got)
	}
}

func TestATRGapDominates(t *testing.T) {
	// A gap from the previous close must widen the true range.
	highs := []float64{101, 101, 111}
	lows := []float64{99, 99, 109}
	closes := []float64{100, 100, 110}

	got := ATR(highs, lows, closes, 2)
	// bar 1: max(2, 1, 1) = 2; bar 2: max(2, 11, 9) = 11
	if !almostEqual(got, 6.5, 1e-9) {
		t.Errorf("Expected ATR 6.5, got %f", got)
	}
}

func TestATRInsufficientData(t *testing.T) {
	highs := make([]float64, 14)
	lows := make([]float64, 14)
	closes := make([]float64, 14)
	if got := ATR(highs, lows, closes, 14); got != 0 {
		t.Errorf("Expected 0 for short series, got %f", got)
	}
}

func TestHighestLowest(t *testing.T) {
	vals := []float64{5, 9, 3, 7, 4}

	if got := HighestHigh(vals, 3); got != 7 {
		t.Errorf("Expected trailing max 7, got %f", got)
	}
	if got := LowestLow(vals, 3); got != 3 {
		t.Errorf("Expected trailing min 3, got %f", got)
	}
	// Window longer than the series falls back to the whole series.
	if got := HighestHigh(vals, 20); got != 9 {
		t.Errorf("Expected max 9, got %f", got)
	}
	if got := HighestHigh(nil, 20); got != 0 {
		t.Errorf("Expected 0 for empty series, got %f", got)
	}
}

func TestSnapshot(t *testing.T) {
	candles := make([]types.Candle, 60)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range candles {
		price := 1.08 + float64(i)*0.0001
		candles[i] = types.Candle{
			Time:  base.Add(time.Duration(i) * 5 * time.Minute),
			Open:  price - 0.0001,
			High:  price + 0.0002,
			Low:   price - 0.0002,
			Close: price,
		}
	}

	snap := Snapshot(candles)
	if snap.SMA20 == 0 || snap.SMA50 == 0 {
		t.Error("Expected non-zero SMAs with 60 candles")
	}
	if snap.RSI14 != 100 {
		t.Errorf("Expected RSI 100 on a strictly rising series, got %f", snap.RSI14)
	}
	if snap.MaxHigh20 <= snap.MinLow20 {
		t.Errorf("Expected maxHigh %f > minLow %f", snap.MaxHigh20, snap.MinLow20)
	}
	if snap.ATR14 == 0 {
		t.Error("Expected non-zero ATR with 60 candles")
	}
}

func TestSnapshotShortSeries(t *testing.T) {
	candles := make([]types.Candle, 10)
	for i := range candles {
		candles[i] = types.Candle{Open: 1, High: 2, Low: 0.5, Close: 1.5}
	}

	snap := Snapshot(candles)
	if snap.SMA20 != 0 || snap.SMA50 != 0 || snap.EMA12 != 0 || snap.EMA26 != 0 {
		t.Error("Expected zero moving averages for a 10 candle series")
	}
	if snap.RSI14 != 0 || snap.ATR14 != 0 {
		t.Error("Expected zero RSI/ATR for a 10 candle series")
	}
}
