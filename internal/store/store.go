package store

import (
	"time"

	"StockPulse/internal/model"
)

// Store persists articles keyed by (fingerprint, symbol).
type Store interface {
	// UpsertArticle inserts or updates by the (fingerprint, symbol) key and
	// reports whether a new record was created.
	UpsertArticle(a *model.Article) (created bool, err error)
	// QueryRecent returns articles for symbol published at or after since,
	// newest first.
	QueryRecent(symbol string, since time.Time) ([]model.Article, error)
	Close() error
}
