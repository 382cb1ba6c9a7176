package provider

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// FinnhubProvider fetches company news from the Finnhub API.
type FinnhubProvider struct {
	client      *resty.Client
	apiKey      string
	maxArticles int
}

// NewFinnhubProvider creates the secondary news provider.
func NewFinnhubProvider(apiKey string, timeout time.Duration, maxArticles int) *FinnhubProvider {
	client := resty.New().
		SetBaseURL("https://finnhub.io/api/v1").
		SetTimeout(timeout)
	return &FinnhubProvider{client: client, apiKey: apiKey, maxArticles: maxArticles}
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

type finnhubArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	DateTime int64  `json:"datetime"`
	Image    string `json:"image"`
}

func (p *FinnhubProvider) FetchNews(symbol string) ([]Draft, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	resp, err := p.client.R().
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   from.Format("2006-01-02"),
			"to":     to.Format("2006-01-02"),
			"token":  p.apiKey,
		}).
		Get("/company-news")
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, fmt.Errorf("finnhub: %w", ErrRateLimited)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("finnhub: status %d", resp.StatusCode())
	}

	var items []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("finnhub decode: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoArticles
	}
	if len(items) > p.maxArticles {
		items = items[:p.maxArticles]
	}

	drafts := make([]Draft, 0, len(items))
	for _, raw := range items {
		var a finnhubArticle
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		drafts = append(drafts, Draft{
			Title:          a.Headline,
			Summary:        a.Summary,
			Source:         a.Source,
			URL:            a.URL,
			BannerImageURL: a.Image,
			Published:      strconv.FormatInt(a.DateTime, 10),
			Raw:            raw,
		})
	}
	return drafts, nil
}
