package store

import (
	"sort"
	"sync"
	"time"

	"StockPulse/internal/model"
)

type articleKey struct {
	fingerprint string
	symbol      string
}

// MemoryStore is an in-memory Store used for development and testing.
type MemoryStore struct {
	mu       sync.Mutex
	articles map[articleKey]model.Article
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{articles: make(map[articleKey]model.Article)}
}

func (m *MemoryStore) UpsertArticle(a *model.Article) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := articleKey{a.Fingerprint, a.Symbol}
	prev, exists := m.articles[key]

	stored := *a
	stored.UpdatedAt = time.Now().UTC()
	if exists {
		stored.CreatedAt = prev.CreatedAt
	} else {
		stored.CreatedAt = stored.UpdatedAt
	}
	m.articles[key] = stored
	return !exists, nil
}

func (m *MemoryStore) QueryRecent(symbol string, since time.Time) ([]model.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Article
	for key, a := range m.articles {
		if key.symbol == symbol && !a.PublishedAt.Before(since) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
