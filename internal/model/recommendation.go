package model

import "time"

// Action is the fixed five-value recommendation vocabulary.
type Action string

const (
	ActionStrongBuy  Action = "strong_buy"
	ActionBuy        Action = "buy"
	ActionHold       Action = "hold"
	ActionSell       Action = "sell"
	ActionStrongSell Action = "strong_sell"
)

// ConfidenceTier returns the numeric confidence associated with an action.
func (a Action) ConfidenceTier() float64 {
	switch a {
	case ActionStrongBuy:
		return 90
	case ActionBuy:
		return 75
	case ActionSell:
		return 25
	case ActionStrongSell:
		return 10
	default:
		return 50
	}
}

// RiskProfile describes the caller's risk tolerance.
type RiskProfile string

const (
	RiskHigh   RiskProfile = "high"
	RiskMedium RiskProfile = "medium"
	RiskLow    RiskProfile = "low"
)

// TimeHorizon describes the caller's intended holding period.
type TimeHorizon string

const (
	HorizonShort  TimeHorizon = "short-term"
	HorizonMedium TimeHorizon = "medium-term"
	HorizonLong   TimeHorizon = "long-term"
)

// SentimentAggregate is the time-decayed, regime-adjusted sentiment over the
// recent articles for one symbol. Derived per request, never persisted.
type SentimentAggregate struct {
	Symbol         string             `json:"symbol"`
	Score          float64            `json:"score"`
	Confidence     float64            `json:"confidence"`
	Distribution   map[Sentiment]int  `json:"distribution"`
	KeyPhrases     []string           `json:"key_phrases"`
	SourceWeights  map[string]float64 `json:"source_weights"`
	AvgReliability float64            `json:"avg_reliability"`
	ArticleCount   int                `json:"article_count"`
}

// PriceTargets holds base/bull/bear case price targets.
type PriceTargets struct {
	Base float64 `json:"base"`
	Bull float64 `json:"bull"`
	Bear float64 `json:"bear"`
}

// RiskMetrics holds stop-loss / take-profit levels and their ratio.
type RiskMetrics struct {
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit      float64 `json:"take_profit"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// Recommendation is the fused output for one symbol. Produced fresh each
// call; callers may cache it keyed on Timestamp.
type Recommendation struct {
	Symbol              string       `json:"symbol"`
	Action              Action       `json:"action"`
	ActionConfidence    float64      `json:"action_confidence"`
	Horizon             TimeHorizon  `json:"horizon"`
	CurrentPrice        float64      `json:"current_price"`
	Targets             PriceTargets `json:"targets"`
	Risk                RiskMetrics  `json:"risk_metrics"`
	Warnings            []string     `json:"warnings"`
	CompositeConfidence float64      `json:"composite_confidence"`
	TechnicalConfidence float64      `json:"technical_confidence"`
	SentimentScore      float64      `json:"sentiment_score"`
	Regime              RegimeResult `json:"market_regime"`
	ArticleCount        int          `json:"article_count"`
	Err                 string       `json:"error,omitempty"`
	Timestamp           time.Time    `json:"timestamp"`
}
