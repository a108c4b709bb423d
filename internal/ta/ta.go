package ta

import (
	"math"

	"forex-ai-trader/internal/types"
)

// Indicator functions return 0 when the series is too short for the
// requested window. Callers treat 0 as "not yet meaningful", never as
// an error.

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return 0
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// EMA seeds with the SMA of the first n values, then applies the
// standard recurrence with k = 2/(n+1) over the rest in time order.
func EMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return 0
	}
	k := 2.0 / (float64(n) + 1.0)
	ema := SMA(closes[:n], n)
	for i := n; i < len(closes); i++ {
		ema = closes[i]*k + ema*(1.0-k)
	}
	return ema
}

// RSI is computed over the trailing period only, not the whole history.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return 0
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// ATR is the mean true range over the trailing period bars.
func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) || period <= 0 {
		return 0
	}
	if len(closes) < period+1 {
		return 0
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		sum += math.Max(tr1, math.Max(tr2, tr3))
	}
	return sum / float64(period)
}

// HighestHigh returns the max over the trailing n values, or over the
// whole series when shorter. 0 for an empty series.
func HighestHigh(highs []float64, n int) float64 {
	if len(highs) == 0 || n <= 0 {
		return 0
	}
	start := len(highs) - n
	if start < 0 {
		start = 0
	}
	max := highs[start]
	for _, v := range highs[start+1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// LowestLow returns the min over the trailing n values, or over the
// whole series when shorter. 0 for an empty series.
func LowestLow(lows []float64, n int) float64 {
	if len(lows) == 0 || n <= 0 {
		return 0
	}
	start := len(lows) - n
	if start < 0 {
		start = 0
	}
	min := lows[start]
	for _, v := range lows[start+1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Snapshot derives the full indicator set from an ordered candle series.
func Snapshot(candles []types.Candle) types.IndicatorSnapshot {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	return types.IndicatorSnapshot{
		SMA20:     SMA(closes, 20),
		SMA50:     SMA(closes, 50),
		EMA12:     EMA(closes, 12),
		EMA26:     EMA(closes, 26),
		RSI14:     RSI(closes, 14),
		ATR14:     ATR(highs, lows, closes, 14),
		MaxHigh20: HighestHigh(highs, 20),
		MinLow20:  LowestLow(lows, 20),
	}
}
