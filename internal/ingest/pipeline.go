package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"StockPulse/internal/model"
	"StockPulse/internal/provider"
	"StockPulse/internal/sentiment"
	"StockPulse/internal/store"
)

// ErrAllProvidersFailed means the whole fallback chain was exhausted without
// a single usable article.
var ErrAllProvidersFailed = errors.New("all news providers failed")

const (
	// rateLimitRetries bounds backoff retries against a rate-limited
	// provider before the chain advances.
	rateLimitRetries = 2
	// maxChunkShrinks bounds how many times a failing chunk is halved
	// before its remaining articles are skipped.
	maxChunkShrinks = 3
	// maxSummaryChars caps the stored summary length.
	maxSummaryChars = 500
)

// Options tune one Pipeline instance.
type Options struct {
	FreshnessHours int
	ChunkSize      int
	LatestOnly     bool
}

func (o *Options) applyDefaults() {
	if o.FreshnessHours <= 0 {
		o.FreshnessHours = 24
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = 20
	}
}

// Pipeline runs the full acquisition flow for one symbol: provider fallback
// chain, normalization, dedup fingerprinting, enrichment and idempotent
// persistence.
type Pipeline struct {
	providers  []provider.Provider
	store      store.Store
	scorer     *sentiment.Scorer
	keyphraser *sentiment.KeyPhraser
	opts       Options
	now        func() time.Time
	sleep      func(time.Duration)
}

func NewPipeline(providers []provider.Provider, st store.Store, scorer *sentiment.Scorer, keyphraser *sentiment.KeyPhraser, opts Options) *Pipeline {
	opts.applyDefaults()
	return &Pipeline{
		providers:  providers,
		store:      st,
		scorer:     scorer,
		keyphraser: keyphraser,
		opts:       opts,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Ingest acquires, enriches and persists news for one symbol. Per-article
// problems are logged and skipped; only an exhausted provider chain or a
// canceled context surfaces as an error.
func (p *Pipeline) Ingest(ctx context.Context, symbol string) (model.IngestSummary, error) {
	summary := model.IngestSummary{Status: "ok", Symbol: symbol}

	if err := ctx.Err(); err != nil {
		return model.IngestSummary{Status: "canceled", Symbol: symbol}, err
	}

	freshness := time.Duration(p.opts.FreshnessHours) * time.Hour
	if recent, err := p.store.QueryRecent(symbol, p.now().Add(-freshness)); err != nil {
		log.Printf("[WARN] recent-article lookup failed for %s: %v", symbol, err)
	} else if len(recent) > 0 {
		log.Printf("[INFO] %d fresh articles already stored for %s, skipping fetch", len(recent), symbol)
		summary.Status = "cached"
		return summary, nil
	}

	drafts, src, err := p.fetchDrafts(ctx, symbol)
	if err != nil {
		return model.IngestSummary{Status: "failed", Symbol: symbol}, err
	}
	log.Printf("[INFO] provider %s returned %d drafts for %s", src, len(drafts), symbol)

	seen := make(map[string]struct{})
	size := p.opts.ChunkSize
	shrinks := 0
	for start := 0; start < len(drafts); {
		if err := ctx.Err(); err != nil {
			summary.Status = "canceled"
			return summary, err
		}
		end := start + size
		if end > len(drafts) {
			end = len(drafts)
		}
		consumed, chunkErr := p.processChunk(symbol, drafts[start:end], seen, &summary)
		start += consumed
		if chunkErr == nil {
			continue
		}
		if shrinks >= maxChunkShrinks || size <= 1 {
			log.Printf("[ERROR] article at offset %d skipped for %s after %d shrinks: %v", start, symbol, shrinks, chunkErr)
			start++
			continue
		}
		size /= 2
		shrinks++
		log.Printf("[WARN] chunk processing failed for %s, retrying with size %d: %v", symbol, size, chunkErr)
	}

	log.Printf("[INFO] ingestion finished for %s: %d new, %d duplicates", symbol, summary.NewArticles, summary.Duplicates)
	return summary, nil
}

// fetchDrafts walks the provider chain in priority order. Rate-limited
// providers get bounded backoff retries before the chain advances; any
// other error advances immediately.
func (p *Pipeline) fetchDrafts(ctx context.Context, symbol string) ([]provider.Draft, string, error) {
	for _, prov := range p.providers {
		backoff := time.Second
		for attempt := 0; ; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, "", err
			}
			drafts, err := prov.FetchNews(symbol)
			if err == nil && len(drafts) > 0 {
				return drafts, prov.Name(), nil
			}
			if errors.Is(err, provider.ErrRateLimited) && attempt < rateLimitRetries {
				log.Printf("[WARN] %s rate limited for %s, retrying in %s", prov.Name(), symbol, backoff)
				p.sleep(backoff)
				backoff *= 2
				continue
			}
			if err != nil {
				log.Printf("[WARN] provider %s failed for %s: %v", prov.Name(), symbol, err)
			} else {
				log.Printf("[WARN] provider %s returned no articles for %s", prov.Name(), symbol)
			}
			break
		}
	}
	return nil, "", fmt.Errorf("fetch news for %s: %w", symbol, ErrAllProvidersFailed)
}

// processChunk enriches and persists one slice of drafts. It reports how
// many drafts it fully handled so a failed chunk can be resumed without
// re-processing.
func (p *Pipeline) processChunk(symbol string, drafts []provider.Draft, seen map[string]struct{}, summary *model.IngestSummary) (int, error) {
	now := p.now()
	cutoff := now.Add(-time.Duration(p.opts.FreshnessHours) * time.Hour)

	for i, d := range drafts {
		if d.Title == "" {
			log.Printf("[WARN] dropping untitled article from %s", d.Source)
			continue
		}
		publishedAt, ok := ParsePublished(d.Published)
		if !ok {
			log.Printf("[WARN] dropping article with unparsable date %q from %s", d.Published, d.Source)
			continue
		}
		if p.opts.LatestOnly && publishedAt.Before(cutoff) {
			continue
		}

		normalized := NormalizeTitle(d.Title)
		if normalized == "" {
			continue
		}
		fingerprint := Fingerprint(normalized, publishedAt)
		if _, dup := seen[fingerprint]; dup {
			summary.Duplicates++
			continue
		}
		seen[fingerprint] = struct{}{}

		articleSummary := truncateRunes(d.Summary, maxSummaryChars)

		text := d.Title
		if articleSummary != "" {
			text = d.Title + " " + articleSummary
		}
		result := p.scorer.Score(text)
		phrases := p.keyphraser.Phrases(text)

		article := &model.Article{
			Fingerprint:       fingerprint,
			Symbol:            symbol,
			Title:             normalized,
			RawTitle:          d.Title,
			Summary:           articleSummary,
			Source:            d.Source,
			SourceReliability: SourceReliability(d.Source),
			URL:               d.URL,
			PublishedAt:       publishedAt,
			Sentiment:         result.Label,
			Confidence:        result.Confidence,
			KeyPhrases:        phrases,
			BannerImageURL:    d.BannerImageURL,
			RawData:           d.Raw,
		}

		created, err := p.store.UpsertArticle(article)
		if err != nil {
			delete(seen, fingerprint)
			return i, fmt.Errorf("upsert article %s: %w", fingerprint[:12], err)
		}
		if created {
			summary.NewArticles++
		} else {
			summary.Duplicates++
		}
	}
	return len(drafts), nil
}
