package model

import "time"

// Sentiment is the three-way label produced by the sentiment model.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Value maps a sentiment label to its numeric contribution (+1/0/-1).
func (s Sentiment) Value() float64 {
	switch s {
	case SentimentPositive:
		return 1.0
	case SentimentNegative:
		return -1.0
	default:
		return 0
	}
}

// SentimentResult pairs a label with a normalized confidence in [0,1].
type SentimentResult struct {
	Label      Sentiment
	Confidence float64
}

// Article is one enriched, persisted news item. (Fingerprint, Symbol) is the
// upsert key: re-ingesting the same story converges to one record.
type Article struct {
	Fingerprint       string    `json:"-"`
	Symbol            string    `json:"symbol"`
	Title             string    `json:"title"`
	RawTitle          string    `json:"raw_title"`
	Summary           string    `json:"summary"`
	Source            string    `json:"source"`
	SourceReliability float64   `json:"source_reliability"`
	URL               string    `json:"url"`
	PublishedAt       time.Time `json:"published_at"`
	Sentiment         Sentiment `json:"sentiment"`
	Confidence        float64   `json:"confidence"`
	KeyPhrases        []string  `json:"key_phrases"`
	BannerImageURL    string    `json:"banner_image_url,omitempty"`
	RawData           []byte    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IngestSummary is the caller-facing result of one ingestion run.
type IngestSummary struct {
	Status      string `json:"status"`
	Symbol      string `json:"symbol"`
	NewArticles int    `json:"new_articles"`
	Duplicates  int    `json:"duplicates"`
}
