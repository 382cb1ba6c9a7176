package model

// MarketRegime is the coarse bull/bear/neutral classification of overall
// market conditions.
type MarketRegime string

const (
	RegimeBull    MarketRegime = "bull"
	RegimeBear    MarketRegime = "bear"
	RegimeNeutral MarketRegime = "neutral"
)

// Multiplier returns the regime adjustment applied to sentiment and
// technical confidence.
func (r MarketRegime) Multiplier() float64 {
	switch r {
	case RegimeBull:
		return 1.1
	case RegimeBear:
		return 0.9
	default:
		return 1.0
	}
}

// RegimeResult is a regime classification with its confidence (0-100).
type RegimeResult struct {
	Regime     MarketRegime `json:"regime"`
	Confidence float64      `json:"confidence"`
}

// PercentileRank places the current price within sector and market peers.
type PercentileRank struct {
	Sector float64 `json:"sector"`
	Market float64 `json:"market"`
}

// TechnicalSnapshot holds all price-derived indicators for one symbol.
// It is recomputed per request and never persisted. A fully neutral
// snapshot (CurrentPrice 0, RSI 50, regime neutral at 50) stands in when
// price data could not be fetched.
type TechnicalSnapshot struct {
	Symbol         string         `json:"symbol"`
	CurrentPrice   float64        `json:"current_price"`
	SMA50          float64        `json:"sma_50"`
	SMA200         float64        `json:"sma_200"`
	RSI14          float64        `json:"rsi"`
	Volatility     float64        `json:"volatility"`
	MACD           float64        `json:"macd"`
	MACDSignal     float64        `json:"macd_signal"`
	ADX            float64        `json:"adx"`
	OBV            float64        `json:"obv"`
	Regime         RegimeResult   `json:"market_regime"`
	PercentileRank PercentileRank `json:"percentile_rank"`
	Confidence     float64        `json:"confidence"`
}

// NeutralSnapshot returns the degraded fallback snapshot for a symbol.
func NeutralSnapshot(symbol string) *TechnicalSnapshot {
	return &TechnicalSnapshot{
		Symbol:         symbol,
		RSI14:          50,
		Regime:         RegimeResult{Regime: RegimeNeutral, Confidence: 50},
		PercentileRank: PercentileRank{Sector: 50, Market: 50},
	}
}
