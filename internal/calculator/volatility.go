package calculator

import (
	"errors"
	"math"

	"StockPulse/internal/model"
)

const tradingDaysPerYear = 252

// CalculateVolatility returns the annualized standard deviation of daily returns.
func CalculateVolatility(bars []model.OHLCV) (float64, error) {
	closes := ExtractCloses(bars)
	if len(closes) < 3 {
		return 0, errors.New("not enough data for volatility calculation")
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	if len(returns) < 2 {
		return 0, errors.New("not enough valid returns")
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear), nil
}

// VolumeAboveAverage reports whether the latest volume exceeds its trailing
// average over the given window.
func VolumeAboveAverage(bars []model.OHLCV, window int) (bool, error) {
	if len(bars) < window+1 {
		return false, errors.New("not enough data for volume average")
	}
	volumes := ExtractVolumes(bars)
	latest := volumes[len(volumes)-1]
	sum := 0.0
	for i := len(volumes) - window - 1; i < len(volumes)-1; i++ {
		sum += volumes[i]
	}
	return latest > sum/float64(window), nil
}
