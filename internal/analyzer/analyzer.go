package analyzer

import (
	"log"
	"sort"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
	"StockPulse/internal/quotes"
)

// minUsableBars is the bar count below which the lookback window is widened
// before giving up.
const minUsableBars = 60

// Analyzer computes a TechnicalSnapshot from daily price history.
type Analyzer struct {
	fetcher quotes.Fetcher
	regime  *RegimeDetector
}

func New(fetcher quotes.Fetcher) *Analyzer {
	return &Analyzer{fetcher: fetcher, regime: NewRegimeDetector(fetcher)}
}

// Analyze never fails: on any data problem it returns the fully neutral
// snapshot (zeroed indicators, regime neutral at 50) so the fusion engine
// can detect degradation by CurrentPrice == 0 alone.
func (a *Analyzer) Analyze(symbol string) *model.TechnicalSnapshot {
	bars := a.fetchWithWidening(symbol)
	if len(bars) == 0 {
		log.Printf("[WARN] no price data for %s, returning neutral snapshot", symbol)
		return model.NeutralSnapshot(symbol)
	}

	snap := &model.TechnicalSnapshot{Symbol: symbol}
	snap.CurrentPrice = bars[len(bars)-1].Close

	if sma, err := calculator.CalculateSMA50(bars); err != nil {
		log.Printf("[WARN] SMA50 calculation failed for %s: %v, using current price", symbol, err)
		snap.SMA50 = snap.CurrentPrice
	} else {
		snap.SMA50 = sma
	}

	if sma, err := calculator.CalculateSMA200(bars); err != nil {
		log.Printf("[WARN] SMA200 calculation failed for %s: %v, using current price", symbol, err)
		snap.SMA200 = snap.CurrentPrice
	} else {
		snap.SMA200 = sma
	}

	if rsi, err := calculator.CalculateRSI(bars, 14); err != nil {
		log.Printf("[WARN] RSI calculation failed for %s: %v, defaulting to 50", symbol, err)
		snap.RSI14 = 50
	} else {
		snap.RSI14 = rsi
	}

	if vol, err := calculator.CalculateVolatility(bars); err != nil {
		log.Printf("[WARN] volatility calculation failed for %s: %v", symbol, err)
	} else {
		snap.Volatility = vol
	}

	if macd, signal, err := calculator.CalculateMACD(bars); err != nil {
		log.Printf("[WARN] MACD calculation failed for %s: %v", symbol, err)
	} else {
		snap.MACD = macd
		snap.MACDSignal = signal
	}

	if adx, err := calculator.CalculateADX(bars, 14); err != nil {
		log.Printf("[WARN] ADX calculation failed for %s: %v", symbol, err)
	} else {
		snap.ADX = adx
	}

	if obv, err := calculator.CalculateOBV(bars); err != nil {
		log.Printf("[WARN] OBV calculation failed for %s: %v", symbol, err)
	} else {
		snap.OBV = obv
	}

	snap.Regime = a.regime.Current()
	snap.PercentileRank = percentileRank(bars, snap.CurrentPrice)
	snap.Confidence = a.confidence(bars, snap)

	return snap
}

// fetchWithWidening tries a 1y window first and widens to 2y when too few
// bars come back.
func (a *Analyzer) fetchWithWidening(symbol string) []model.OHLCV {
	bars, err := a.fetcher.FetchDailyBars(symbol, 365)
	if err != nil {
		log.Printf("[WARN] daily bars fetch failed for %s: %v", symbol, err)
		bars = nil
	}
	if len(bars) < minUsableBars {
		wider, err := a.fetcher.FetchDailyBars(symbol, 730)
		if err != nil {
			log.Printf("[WARN] widened fetch failed for %s: %v", symbol, err)
			return bars
		}
		if len(wider) > len(bars) {
			return wider
		}
	}
	return bars
}

// confidence is the weighted technical signal sum (weights total 100),
// scaled by the regime multiplier and clamped to [0,100].
func (a *Analyzer) confidence(bars []model.OHLCV, snap *model.TechnicalSnapshot) float64 {
	score := 0.0
	if snap.CurrentPrice > snap.SMA50 {
		score += 20
	}
	if snap.CurrentPrice > snap.SMA200 {
		score += 20
	}
	if snap.RSI14 > 30 && snap.RSI14 < 70 {
		score += 15
	}
	if snap.MACD > snap.MACDSignal {
		score += 10
	}
	if ok, err := calculator.VolumeAboveAverage(bars, 20); err == nil && ok {
		score += 10
	}

	trendStrength := snap.ADX / 25
	if trendStrength > 1 {
		trendStrength = 1
	}
	score += 10 * trendStrength

	switch {
	case snap.OBV > 0:
		score += 5
	case snap.OBV < 0:
		score -= 5
	}

	volPenalty := (snap.Volatility - 0.2) / 0.3
	if volPenalty < 0 {
		volPenalty = 0
	}
	if volPenalty > 1 {
		volPenalty = 1
	}
	score += 10 * (1 - volPenalty)

	score *= snap.Regime.Regime.Multiplier()
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// percentileRank places the current price within the trailing distribution
// of daily closes. Sector peer data is not fetched here; both ranks use the
// symbol's own history.
func percentileRank(bars []model.OHLCV, price float64) model.PercentileRank {
	closes := calculator.ExtractCloses(bars)
	if len(closes) == 0 {
		return model.PercentileRank{Sector: 50, Market: 50}
	}
	sorted := append([]float64(nil), closes...)
	sort.Float64s(sorted)
	below := sort.SearchFloat64s(sorted, price)
	rank := 100 * float64(below) / float64(len(sorted))
	return model.PercentileRank{Sector: rank, Market: rank}
}
