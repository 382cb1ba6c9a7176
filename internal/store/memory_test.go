package store

import (
	"testing"
	"time"

	"StockPulse/internal/model"
)

func article(fingerprint, symbol string, published time.Time) *model.Article {
	return &model.Article{
		Fingerprint: fingerprint,
		Symbol:      symbol,
		Title:       "some headline",
		Source:      "Reuters",
		Sentiment:   model.SentimentNeutral,
		PublishedAt: published,
	}
}

func TestMemoryStore_UpsertCreatedSemantics(t *testing.T) {
	st := NewMemoryStore()
	now := time.Now()

	created, err := st.UpsertArticle(article("fp1", "AAPL", now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("first upsert should report created")
	}

	created, err = st.UpsertArticle(article("fp1", "AAPL", now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("second upsert of the same key should not report created")
	}

	// Same fingerprint under a different symbol is a distinct record.
	created, err = st.UpsertArticle(article("fp1", "MSFT", now))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("same fingerprint for another symbol should create a new record")
	}
}

func TestMemoryStore_UpdatePreservesCreatedAt(t *testing.T) {
	st := NewMemoryStore()
	now := time.Now()

	if _, err := st.UpsertArticle(article("fp1", "AAPL", now)); err != nil {
		t.Fatal(err)
	}
	first, err := st.QueryRecent("AAPL", now.Add(-time.Hour))
	if err != nil || len(first) != 1 {
		t.Fatalf("query after insert: %v (%d rows)", err, len(first))
	}

	updated := article("fp1", "AAPL", now)
	updated.Sentiment = model.SentimentPositive
	if _, err := st.UpsertArticle(updated); err != nil {
		t.Fatal(err)
	}
	second, err := st.QueryRecent("AAPL", now.Add(-time.Hour))
	if err != nil || len(second) != 1 {
		t.Fatalf("query after update: %v (%d rows)", err, len(second))
	}
	if !second[0].CreatedAt.Equal(first[0].CreatedAt) {
		t.Error("update should preserve the original creation time")
	}
	if second[0].Sentiment != model.SentimentPositive {
		t.Error("update should replace enrichment fields")
	}
}

func TestMemoryStore_QueryRecentFiltersAndOrders(t *testing.T) {
	st := NewMemoryStore()
	now := time.Now()

	for i, age := range []time.Duration{48 * time.Hour, 2 * time.Hour, 30 * time.Minute} {
		a := article("fp"+string(rune('a'+i)), "AAPL", now.Add(-age))
		if _, err := st.UpsertArticle(a); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.UpsertArticle(article("fpx", "MSFT", now)); err != nil {
		t.Fatal(err)
	}

	got, err := st.QueryRecent("AAPL", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles within the window, got %d", len(got))
	}
	if got[0].PublishedAt.Before(got[1].PublishedAt) {
		t.Error("expected newest-first ordering")
	}
	for _, a := range got {
		if a.Symbol != "AAPL" {
			t.Errorf("unexpected symbol %s in results", a.Symbol)
		}
	}
}
