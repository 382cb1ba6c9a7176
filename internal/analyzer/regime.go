package analyzer

import (
	"log"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
	"StockPulse/internal/quotes"
)

const marketProxySymbol = "SPY"

// RegimeDetector classifies overall market conditions from a broad-market
// proxy's price history.
type RegimeDetector struct {
	fetcher quotes.Fetcher
}

func NewRegimeDetector(fetcher quotes.Fetcher) *RegimeDetector {
	return &RegimeDetector{fetcher: fetcher}
}

// Current returns the market regime. Any data failure degrades to neutral
// with confidence 50 so downstream logic never branches on an error.
func (d *RegimeDetector) Current() model.RegimeResult {
	neutral := model.RegimeResult{Regime: model.RegimeNeutral, Confidence: 50}

	bars, err := d.fetcher.FetchDailyBars(marketProxySymbol, 365)
	if err != nil || len(bars) == 0 {
		log.Printf("[WARN] market regime fetch failed: %v, defaulting to neutral", err)
		return neutral
	}

	price := bars[len(bars)-1].Close
	sma50, err50 := calculator.CalculateSMA50(bars)
	sma200, err200 := calculator.CalculateSMA200(bars)
	vol, errVol := calculator.CalculateVolatility(bars)
	if err50 != nil || err200 != nil || errVol != nil {
		log.Printf("[WARN] market regime indicators incomplete, defaulting to neutral")
		return neutral
	}

	bull := 0.4*boolWeight(price > sma50) + 0.4*boolWeight(price > sma200) + 0.2*boolWeight(vol < 0.2)
	bear := 0.4*boolWeight(price < sma50) + 0.4*boolWeight(price < sma200) + 0.2*boolWeight(vol > 0.3)

	confidence := 100 * abs(bull-bear)
	if confidence > 100 {
		confidence = 100
	}

	switch {
	case bull > 0.6:
		return model.RegimeResult{Regime: model.RegimeBull, Confidence: confidence}
	case bear > 0.6:
		return model.RegimeResult{Regime: model.RegimeBear, Confidence: confidence}
	default:
		return model.RegimeResult{Regime: model.RegimeNeutral, Confidence: confidence}
	}
}

func boolWeight(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
