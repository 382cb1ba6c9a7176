package fusion

import (
	"errors"
	"log"
	"math"
	"regexp"
	"sort"
	"time"

	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// TechnicalAnalyzer produces the per-symbol indicator snapshot the engine
// fuses with sentiment.
type TechnicalAnalyzer interface {
	Analyze(symbol string) *model.TechnicalSnapshot
}

// ErrInvalidSymbol is returned before any work when the ticker fails format
// validation. This is the only caller error the engine raises.
var ErrInvalidSymbol = errors.New("invalid ticker symbol")

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,5}$`)

// tier1Sources get a 2.0 source weight in sentiment aggregation.
var tier1Sources = map[string]struct{}{
	"Bloomberg":       {},
	"Reuters":         {},
	"WSJ":             {},
	"Financial Times": {},
	"CNBC":            {},
	"Barron's":        {},
}

const (
	// sentimentLookback bounds which stored articles feed the aggregate.
	sentimentLookback   = 24 * time.Hour
	maxAggregatePhrases = 10
)

// Composite confidence blend weights.
const (
	technicalWeight   = 0.5
	sentimentWeight   = 0.3
	reliabilityWeight = 0.2
)

// Engine fuses technical analysis with aggregated news sentiment into a
// single actionable recommendation.
type Engine struct {
	analyzer TechnicalAnalyzer
	store    store.Store
	now      func() time.Time
}

func NewEngine(a TechnicalAnalyzer, st store.Store) *Engine {
	return &Engine{analyzer: a, store: st, now: time.Now}
}

// Fuse produces a recommendation for one symbol. Degraded inputs (no price
// data, no articles, neutral sentiment) yield a conservative hold rather
// than an error; only an invalid symbol is rejected outright.
func (e *Engine) Fuse(symbol string, risk model.RiskProfile, horizon model.TimeHorizon) (*model.Recommendation, error) {
	if !symbolPattern.MatchString(symbol) {
		return nil, ErrInvalidSymbol
	}
	if risk == "" {
		risk = model.RiskMedium
	}
	if horizon == "" {
		horizon = model.HorizonMedium
	}

	snap := e.analyzer.Analyze(symbol)
	if snap.CurrentPrice == 0 {
		log.Printf("[WARN] no usable price data for %s, returning error-shaped recommendation", symbol)
		return &model.Recommendation{
			Symbol:    symbol,
			Action:    model.ActionHold,
			Horizon:   horizon,
			Regime:    snap.Regime,
			Err:       "insufficient price data",
			Timestamp: e.now().UTC(),
		}, nil
	}

	agg := e.aggregateSentiment(symbol, snap.Regime.Regime)

	composite := technicalWeight*snap.Confidence +
		sentimentWeight*agg.Confidence +
		reliabilityWeight*agg.AvgReliability
	composite = clamp(composite, 0, 100)

	action := decideAction(snap, agg.Score)
	targets := priceTargets(snap.CurrentPrice, agg.Score, risk)

	rec := &model.Recommendation{
		Symbol:              symbol,
		Action:              action,
		ActionConfidence:    action.ConfidenceTier(),
		Horizon:             horizon,
		CurrentPrice:        snap.CurrentPrice,
		Targets:             targets,
		Risk:                riskMetrics(snap),
		Warnings:            contrarianWarnings(snap, agg.Score),
		CompositeConfidence: composite,
		TechnicalConfidence: snap.Confidence,
		SentimentScore:      agg.Score,
		Regime:              snap.Regime,
		ArticleCount:        agg.ArticleCount,
		Timestamp:           e.now().UTC(),
	}
	log.Printf("[INFO] %s: action=%s composite=%.1f sentiment=%.2f regime=%s articles=%d",
		symbol, rec.Action, rec.CompositeConfidence, rec.SentimentScore, snap.Regime.Regime, agg.ArticleCount)
	return rec, nil
}

// aggregateSentiment folds recent articles into one regime-adjusted score.
// Each article contributes sentiment_value x confidence x (reliability/100)
// x exp(-hours/24) x tier_weight; the aggregate is the mean contribution,
// clipped to [-1,1].
func (e *Engine) aggregateSentiment(symbol string, regime model.MarketRegime) model.SentimentAggregate {
	agg := model.SentimentAggregate{
		Symbol:        symbol,
		Distribution:  map[model.Sentiment]int{},
		SourceWeights: map[string]float64{},
	}

	now := e.now()
	articles, err := e.store.QueryRecent(symbol, now.Add(-sentimentLookback))
	if err != nil {
		log.Printf("[WARN] article lookup failed for %s: %v", symbol, err)
		return agg
	}
	if len(articles) == 0 {
		return agg
	}

	var (
		scoreSum       float64
		confidenceSum  float64
		reliabilitySum float64
		phrases        = map[string]struct{}{}
	)
	for _, a := range articles {
		hours := now.Sub(a.PublishedAt).Hours()
		if hours < 0 {
			hours = 0
		}
		recency := math.Exp(-hours / 24)

		tierWeight := 1.0
		if _, ok := tier1Sources[a.Source]; ok && a.SourceReliability >= 70 {
			tierWeight = 2.0
		}
		agg.SourceWeights[a.Source] = tierWeight

		weight := a.Confidence * (a.SourceReliability / 100) * recency * tierWeight
		scoreSum += a.Sentiment.Value() * weight
		confidenceSum += a.Confidence
		reliabilitySum += a.SourceReliability
		agg.Distribution[a.Sentiment]++
		for _, p := range a.KeyPhrases {
			phrases[p] = struct{}{}
		}
	}

	n := float64(len(articles))
	agg.ArticleCount = len(articles)
	agg.Confidence = clamp(confidenceSum/n*100, 0, 100)
	agg.AvgReliability = reliabilitySum / n
	agg.Score = clamp(scoreSum/n*regime.Multiplier(), -1, 1)
	agg.KeyPhrases = topPhrases(phrases, maxAggregatePhrases)
	return agg
}

// decideAction maps the sentiment aggregate and price-vs-SMA200 position to
// the five-value action vocabulary.
func decideAction(snap *model.TechnicalSnapshot, sentimentScore float64) model.Action {
	aboveSMA200 := snap.CurrentPrice > snap.SMA200
	switch {
	case sentimentScore > 0.6 && aboveSMA200:
		return model.ActionStrongBuy
	case sentimentScore > 0.3 && aboveSMA200:
		return model.ActionBuy
	case sentimentScore < -0.6 && !aboveSMA200:
		return model.ActionStrongSell
	case sentimentScore < -0.3 && !aboveSMA200:
		return model.ActionSell
	default:
		return model.ActionHold
	}
}

// priceTargets scales the current price by risk-profile-aware multipliers,
// each nudged by sentiment magnitude.
func priceTargets(price, sentimentScore float64, risk model.RiskProfile) model.PriceTargets {
	base, bull, bear := 1.05, 1.15, 0.95
	switch risk {
	case model.RiskHigh:
		bull += 0.02
		bear -= 0.02
	case model.RiskLow:
		bull -= 0.02
		bear += 0.02
	}
	nudge := sentimentScore * 0.1
	return model.PriceTargets{
		Base: price * (base + nudge),
		Bull: price * (bull + nudge),
		Bear: price * (bear + nudge),
	}
}

func riskMetrics(snap *model.TechnicalSnapshot) model.RiskMetrics {
	m := model.RiskMetrics{
		StopLoss:   snap.SMA200 * 0.95,
		TakeProfit: snap.SMA50 * 1.05,
	}
	if denom := snap.CurrentPrice - m.StopLoss; denom > 0 {
		m.RiskRewardRatio = (m.TakeProfit - snap.CurrentPrice) / denom
	}
	return m
}

func contrarianWarnings(snap *model.TechnicalSnapshot, sentimentScore float64) []string {
	var warnings []string
	if snap.RSI14 > 70 && sentimentScore > 0.2 {
		warnings = append(warnings, "overbought: RSI above 70 with positive sentiment")
	}
	if snap.RSI14 < 30 && sentimentScore < -0.2 {
		warnings = append(warnings, "oversold: RSI below 30 with negative sentiment")
	}
	return warnings
}

// topPhrases returns up to n phrases, longest first for determinism.
func topPhrases(set map[string]struct{}, n int) []string {
	phrases := make([]string, 0, len(set))
	for p := range set {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > n {
		phrases = phrases[:n]
	}
	return phrases
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
