package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// YahooProvider fetches news from the Yahoo Finance API via RapidAPI.
type YahooProvider struct {
	client      *resty.Client
	maxArticles int
}

// NewYahooProvider creates the tertiary news provider.
func NewYahooProvider(rapidAPIKey string, timeout time.Duration, maxArticles int) *YahooProvider {
	client := resty.New().
		SetBaseURL("https://yahoo-finance159.p.rapidapi.com").
		SetTimeout(timeout).
		SetHeader("x-rapidapi-key", rapidAPIKey).
		SetHeader("x-rapidapi-host", "yahoo-finance159.p.rapidapi.com")
	return &YahooProvider{client: client, maxArticles: maxArticles}
}

func (p *YahooProvider) Name() string { return "yahoo" }

type yahooFeed struct {
	Items []json.RawMessage `json:"items"`
	News  []json.RawMessage `json:"news"`
}

type yahooArticle struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Publisher   string `json:"publisher"`
	Link        string `json:"link"`
	PubDate     string `json:"pubDate"`
}

func (p *YahooProvider) FetchNews(symbol string) ([]Draft, error) {
	resp, err := p.client.R().
		SetQueryParams(map[string]string{
			"s":            symbol,
			"region":       "US",
			"snippetCount": strconv.Itoa(p.maxArticles),
		}).
		Get("/news/list-by-symbol")
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("yahoo: %w", ErrRateLimited)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode())
	}

	var feed yahooFeed
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	items := feed.Items
	if len(items) == 0 {
		items = feed.News
	}
	if len(items) == 0 {
		return nil, ErrNoArticles
	}
	if len(items) > p.maxArticles {
		items = items[:p.maxArticles]
	}

	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		var a yahooArticle
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		summary := a.Summary
		if summary == "" {
			summary = a.Description
		}
		drafts = append(drafts, Draft{
			Title:     a.Title,
			Summary:   summary,
			Source:    a.Publisher,
			URL:       a.Link,
			Published: a.PubDate,
			Raw:       raw,
		})
	}
	return drafts, nil
}
