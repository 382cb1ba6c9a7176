package sentiment

import (
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"StockPulse/internal/model"
)

// Model is the opaque text-classification model behind the scorer.
type Model interface {
	// Classify returns a raw label and score for one text. The scorer owns
	// normalizing both.
	Classify(text string) (label string, score float64, err error)
}

// ModelLoader constructs a Model on first use. Loading is expensive, so the
// scorer defers it until the first call and runs it exactly once.
type ModelLoader func() (Model, error)

// Options tunes the scorer's guards.
type Options struct {
	MinTextLength   int           // below this, Score degrades to neutral
	RatePerMinute   int           // calls allowed per rolling 60s window
	BreakerFailures int           // consecutive failures before the circuit opens
	BreakerCooldown time.Duration // open duration before a half-open trial
}

func (o *Options) applyDefaults() {
	if o.MinTextLength == 0 {
		o.MinTextLength = 25
	}
	if o.RatePerMinute == 0 {
		o.RatePerMinute = 100
	}
	if o.BreakerFailures == 0 {
		o.BreakerFailures = 3
	}
	if o.BreakerCooldown == 0 {
		o.BreakerCooldown = 120 * time.Second
	}
}

// Scorer wraps the sentiment model behind a rate limiter and a circuit
// breaker. Every failure mode degrades to {neutral, 0.0} instead of failing.
// The limiter and breaker are process-wide shared state; callers must not
// assume dedicated quota.
type Scorer struct {
	loader  ModelLoader
	opts    Options
	limiter *rate.Limiter

	loadOnce sync.Once
	model    Model
	loadErr  error

	mu       sync.Mutex
	failures int
	openedAt time.Time
	halfOpen bool
}

// NewScorer creates a scorer around a lazily-loaded model.
func NewScorer(loader ModelLoader, opts Options) *Scorer {
	opts.applyDefaults()
	perSecond := float64(opts.RatePerMinute) / 60.0
	return &Scorer{
		loader:  loader,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(perSecond), opts.RatePerMinute),
	}
}

var neutralResult = model.SentimentResult{Label: model.SentimentNeutral, Confidence: 0.0}

// Score classifies one text. Degrades to {neutral, 0.0} when the text is too
// short, the rate limit is exceeded, the circuit is open, or the model is
// unavailable or fails.
func (s *Scorer) Score(text string) model.SentimentResult {
	text = strings.TrimSpace(text)
	if len(text) < s.opts.MinTextLength {
		return neutralResult
	}
	if !s.allow() {
		return neutralResult
	}
	if !s.limiter.Allow() {
		log.Printf("[WARN] sentiment rate limit exceeded, degrading to neutral")
		return neutralResult
	}

	m := s.loadedModel()
	if m == nil {
		s.recordFailure()
		return neutralResult
	}

	label, score, err := m.Classify(text)
	if err != nil {
		log.Printf("[WARN] sentiment classify failed: %v", err)
		s.recordFailure()
		return neutralResult
	}
	s.recordSuccess()

	return model.SentimentResult{
		Label:      normalizeLabel(label),
		Confidence: NormalizeConfidence(score),
	}
}

// ScoreBatch classifies texts preserving 1:1 input/output ordering. Inputs
// filtered out for being too short get a synthetic neutral result injected
// back at their original position.
func (s *Scorer) ScoreBatch(texts []string) []model.SentimentResult {
	results := make([]model.SentimentResult, len(texts))
	for i, text := range texts {
		if len(strings.TrimSpace(text)) < s.opts.MinTextLength {
			results[i] = neutralResult
			continue
		}
		results[i] = s.Score(text)
	}
	return results
}

func (s *Scorer) loadedModel() Model {
	s.loadOnce.Do(func() {
		s.model, s.loadErr = s.loader()
		if s.loadErr != nil {
			log.Printf("[ERROR] sentiment model load failed: %v", s.loadErr)
		}
	})
	if s.loadErr != nil {
		return nil
	}
	return s.model
}

// allow reports whether the circuit permits a call. After the cooldown the
// breaker goes half-open and admits a single trial; further callers are
// denied until that trial resolves.
func (s *Scorer) allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures < s.opts.BreakerFailures {
		return true
	}
	if !s.halfOpen && time.Since(s.openedAt) >= s.opts.BreakerCooldown {
		s.halfOpen = true
		return true
	}
	return false
}

func (s *Scorer) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halfOpen = false
	s.failures++
	if s.failures >= s.opts.BreakerFailures {
		s.openedAt = time.Now()
		log.Printf("[WARN] sentiment circuit opened after %d consecutive failures", s.failures)
	}
}

func (s *Scorer) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = 0
	s.halfOpen = false
}

func normalizeLabel(label string) model.Sentiment {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "bullish":
		return model.SentimentPositive
	case "negative", "bearish":
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// NormalizeConfidence maps a raw model score into [0,1]. Values reported as
// percentages (>1) are divided by 100; non-numeric values fall back to 0.5.
func NormalizeConfidence(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0.5
	}
	if score > 1 {
		score = score / 100
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
