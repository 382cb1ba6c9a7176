package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// AlphaVantageProvider fetches news from the Alpha Vantage NEWS_SENTIMENT API.
type AlphaVantageProvider struct {
	client      *resty.Client
	apiKey      string
	maxArticles int
}

// NewAlphaVantageProvider creates the primary news provider.
func NewAlphaVantageProvider(apiKey string, timeout time.Duration, maxArticles int) *AlphaVantageProvider {
	client := resty.New().
		SetBaseURL("https://www.alphavantage.co").
		SetTimeout(timeout)
	return &AlphaVantageProvider{client: client, apiKey: apiKey, maxArticles: maxArticles}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// avFeed is the Alpha Vantage response shape. Feed items are kept raw so the
// original payload can be stored alongside the parsed fields.
type avFeed struct {
	Feed        []json.RawMessage `json:"feed"`
	Information string            `json:"Information"`
	Note        string            `json:"Note"`
	ErrorMsg    string            `json:"Error Message"`
}

type avArticle struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Source        string `json:"source"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
	BannerImage   string `json:"banner_image"`
}

func (p *AlphaVantageProvider) FetchNews(symbol string) ([]Draft, error) {
	resp, err := p.client.R().
		SetQueryParams(map[string]string{
			"function": "NEWS_SENTIMENT",
			"tickers":  symbol,
			"apikey":   p.apiKey,
			"limit":    strconv.Itoa(p.maxArticles),
			"sort":     "LATEST",
		}).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("alphavantage: %w", ErrRateLimited)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d", resp.StatusCode())
	}

	var feed avFeed
	if err := json.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if feed.ErrorMsg != "" {
		return nil, fmt.Errorf("alphavantage api error: %s", feed.ErrorMsg)
	}
	// Free-tier quota exhaustion arrives as a 200 with a Note/Information body.
	if feed.Information != "" || feed.Note != "" {
		return nil, fmt.Errorf("alphavantage: %w", ErrRateLimited)
	}
	if len(feed.Feed) == 0 {
		return nil, ErrNoArticles
	}

	drafts := make([]Draft, 0, len(feed.Feed))
	for _, raw := range feed.Feed {
		var a avArticle
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		drafts = append(drafts, Draft{
			Title:          a.Title,
			Summary:        a.Summary,
			Source:         a.Source,
			URL:            a.URL,
			BannerImageURL: a.BannerImage,
			Published:      a.TimePublished,
			Raw:            raw,
		})
	}
	if len(drafts) > p.maxArticles {
		drafts = drafts[:p.maxArticles]
	}
	return drafts, nil
}
