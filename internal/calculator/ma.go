package calculator

import (
	"errors"

	"StockPulse/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSMA50 returns the 50-day simple moving average from daily bars.
func CalculateSMA50(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(ExtractCloses(dailyBars), 50)
}

// CalculateSMA200 returns the 200-day simple moving average from daily bars.
func CalculateSMA200(dailyBars []model.OHLCV) (float64, error) {
	return CalculateSMA(ExtractCloses(dailyBars), 200)
}

// CalculateEMA computes the exponential moving average series for the given span.
func CalculateEMA(prices []float64, span int) []float64 {
	if len(prices) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	ema := make([]float64, len(prices))
	ema[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		ema[i] = alpha*prices[i] + (1-alpha)*ema[i-1]
	}
	return ema
}

// ExtractCloses returns the close prices of the bars in order.
func ExtractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// ExtractVolumes returns the volumes of the bars in order.
func ExtractVolumes(bars []model.OHLCV) []float64 {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}
