package store

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

// SQLiteStore persists articles to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so fusion reads don't block ingestion writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite article store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			fingerprint        TEXT NOT NULL,
			symbol             TEXT NOT NULL,
			title              TEXT NOT NULL,
			raw_title          TEXT,
			summary            TEXT,
			source             TEXT,
			source_reliability REAL,
			url                TEXT,
			published_at       INTEGER NOT NULL,
			sentiment          TEXT,
			confidence         REAL,
			key_phrases        TEXT,
			banner_image_url   TEXT,
			raw_data           BLOB,
			created_at         INTEGER NOT NULL,
			updated_at         INTEGER NOT NULL,
			PRIMARY KEY (fingerprint, symbol)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_symbol_published ON articles(symbol, published_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// UpsertArticle inserts or updates by (fingerprint, symbol). Conflicts update
// the enrichment fields (last writer wins; enrichment is deterministic for
// the same input text, so the race is benign).
func (s *SQLiteStore) UpsertArticle(a *model.Article) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM articles WHERE fingerprint = ? AND symbol = ?`,
		a.Fingerprint, a.Symbol,
	).Scan(&one)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("check article: %w", err)
	}
	created := err == sql.ErrNoRows

	now := time.Now().Unix()
	_, err = s.db.Exec(`INSERT INTO articles
		(fingerprint, symbol, title, raw_title, summary, source, source_reliability,
		 url, published_at, sentiment, confidence, key_phrases, banner_image_url,
		 raw_data, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(fingerprint, symbol) DO UPDATE SET
			summary = excluded.summary,
			source = excluded.source,
			source_reliability = excluded.source_reliability,
			published_at = excluded.published_at,
			sentiment = excluded.sentiment,
			confidence = excluded.confidence,
			key_phrases = excluded.key_phrases,
			raw_data = excluded.raw_data,
			updated_at = excluded.updated_at`,
		a.Fingerprint, a.Symbol, a.Title, a.RawTitle, a.Summary, a.Source,
		a.SourceReliability, a.URL, a.PublishedAt.UTC().Unix(), string(a.Sentiment),
		a.Confidence, strings.Join(a.KeyPhrases, ", "), a.BannerImageURL,
		a.RawData, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("upsert article: %w", err)
	}
	return created, nil
}

// QueryRecent returns articles for symbol published at or after since, newest first.
func (s *SQLiteStore) QueryRecent(symbol string, since time.Time) ([]model.Article, error) {
	rows, err := s.db.Query(`SELECT
			fingerprint, symbol, title, raw_title, summary, source, source_reliability,
			url, published_at, sentiment, confidence, key_phrases, banner_image_url,
			raw_data, created_at, updated_at
		FROM articles
		WHERE symbol = ? AND published_at >= ?
		ORDER BY published_at DESC`,
		symbol, since.UTC().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var sentiment, phrases string
		var published, created, updated int64
		if err := rows.Scan(&a.Fingerprint, &a.Symbol, &a.Title, &a.RawTitle,
			&a.Summary, &a.Source, &a.SourceReliability, &a.URL, &published,
			&sentiment, &a.Confidence, &phrases, &a.BannerImageURL, &a.RawData,
			&created, &updated); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.Sentiment = model.Sentiment(sentiment)
		a.PublishedAt = time.Unix(published, 0).UTC()
		a.CreatedAt = time.Unix(created, 0).UTC()
		a.UpdatedAt = time.Unix(updated, 0).UTC()
		if phrases != "" {
			a.KeyPhrases = strings.Split(phrases, ", ")
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite article store")
	return s.db.Close()
}
