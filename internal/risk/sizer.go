package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"forex-ai-trader/internal/types"
)

// ErrInvalidStopDistance is returned when the stop-loss distance is not
// positive. Sizing divides by the stop distance, so callers must reject
// such input before an order is considered.
var ErrInvalidStopDistance = errors.New("stop loss distance must be positive")

const (
	defaultContractSize = 100_000
	defaultMinVolume    = 0.01
	defaultVolumeStep   = 0.01
)

// Size converts a percentage-of-balance risk budget and a stop distance
// into a broker-compliant volume: floored to the volume step, raised to
// at least the minimum volume, rounded to 2 decimal places.
func Size(balance, riskPercent, stopLossPips float64, spec types.SymbolSpecification) (float64, error) {
	if stopLossPips <= 0 {
		return 0, fmt.Errorf("%w: got %.2f pips", ErrInvalidStopDistance, stopLossPips)
	}

	contractSize := spec.ContractSize
	if contractSize <= 0 {
		contractSize = defaultContractSize
	}
	point := spec.Point
	if point <= 0 {
		digits := spec.Digits
		if digits <= 0 {
			digits = 4
		}
		point = math.Pow(10, -float64(digits))
	}
	minVolume := spec.MinVolume
	if minVolume <= 0 {
		minVolume = defaultMinVolume
	}
	volumeStep := spec.VolumeStep
	if volumeStep <= 0 {
		volumeStep = defaultVolumeStep
	}

	riskAmount := balance * riskPercent / 100.0
	pipValue := contractSize * point
	rawVolume := riskAmount / (stopLossPips * pipValue)

	// Decimal arithmetic keeps the step flooring exact; 0.58/0.01 in
	// float64 lands just below 58 and would floor one step short.
	raw := decimal.NewFromFloat(rawVolume)
	step := decimal.NewFromFloat(volumeStep)
	volume := raw.Div(step).Floor().Mul(step)

	min := decimal.NewFromFloat(minVolume)
	if volume.LessThan(min) {
		volume = min
	}

	result, _ := volume.Round(2).Float64()
	return result, nil
}
