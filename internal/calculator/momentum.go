package calculator

import (
	"errors"
	"math"

	"StockPulse/internal/model"
)

// CalculateMACD returns the MACD line and its signal line for the standard
// 12/26/9 configuration.
func CalculateMACD(bars []model.OHLCV) (macd, signal float64, err error) {
	closes := ExtractCloses(bars)
	if len(closes) < 26 {
		return 0, 0, errors.New("not enough data for MACD calculation")
	}
	fast := CalculateEMA(closes, 12)
	slow := CalculateEMA(closes, 26)
	macdSeries := make([]float64, len(closes))
	for i := range closes {
		macdSeries[i] = fast[i] - slow[i]
	}
	signalSeries := CalculateEMA(macdSeries, 9)
	return macdSeries[len(macdSeries)-1], signalSeries[len(signalSeries)-1], nil
}

// CalculateOBV returns the final on-balance volume value.
func CalculateOBV(bars []model.OHLCV) (float64, error) {
	if len(bars) < 2 {
		return 0, errors.New("not enough data for OBV calculation")
	}
	obv := 0.0
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			obv += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			obv -= bars[i].Volume
		}
	}
	return obv, nil
}

// CalculateADX computes the average directional index over the given period
// using Wilder smoothing.
func CalculateADX(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < 2*period {
		return 0, errors.New("not enough data for ADX calculation")
	}

	alpha := 1.0 / float64(period)
	var smPlusDM, smMinusDM, smTR float64
	var adx float64
	var dxCount int

	for i := 1; i < len(bars); i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low

		plusDM, minusDM := 0.0, 0.0
		if upMove > downMove && upMove > 0 {
			plusDM = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM = downMove
		}

		tr := math.Max(bars[i].High-bars[i].Low,
			math.Max(math.Abs(bars[i].High-bars[i-1].Close), math.Abs(bars[i].Low-bars[i-1].Close)))

		if i == 1 {
			smPlusDM, smMinusDM, smTR = plusDM, minusDM, tr
		} else {
			smPlusDM = smPlusDM*(1-alpha) + plusDM*alpha
			smMinusDM = smMinusDM*(1-alpha) + minusDM*alpha
			smTR = smTR*(1-alpha) + tr*alpha
		}

		if smTR == 0 {
			continue
		}
		plusDI := 100 * smPlusDM / smTR
		minusDI := 100 * smMinusDM / smTR
		if plusDI+minusDI == 0 {
			continue
		}
		dx := 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
		dxCount++
		if dxCount == 1 {
			adx = dx
		} else {
			adx = adx*(1-alpha) + dx*alpha
		}
	}
	return adx, nil
}
