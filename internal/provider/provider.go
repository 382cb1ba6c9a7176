package provider

import (
	"encoding/json"
	"errors"
)

// ErrRateLimited marks a 429-class provider response. The pipeline retries
// the same provider with backoff instead of advancing the fallback chain.
var ErrRateLimited = errors.New("provider rate limited")

// ErrNoArticles marks an empty but otherwise valid provider response.
var ErrNoArticles = errors.New("provider returned no articles")

// Draft is the canonical article shape every provider adapter normalizes to
// before any shared logic touches it. Published carries the provider-native
// value (epoch seconds/millis or a formatted string); the ingestion pipeline
// owns parsing it.
type Draft struct {
	Title          string
	Summary        string
	Source         string
	URL            string
	BannerImageURL string
	Published      string
	Raw            json.RawMessage
}

// Provider is a uniform interface to one external news source.
type Provider interface {
	// FetchNews returns normalized article drafts for a symbol. A 429-class
	// response is reported as ErrRateLimited; an empty feed as ErrNoArticles.
	FetchNews(symbol string) ([]Draft, error)
	Name() string
}
