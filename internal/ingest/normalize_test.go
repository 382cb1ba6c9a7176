package ingest

import (
	"testing"
	"time"
	"unicode/utf8"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Apple Hits Record High!", "apple hits record high"},
		{"  Fed   Raises\tRates ", "fed raises rates"},
		{"IBM's Q3 earnings: beat", "ibms q3 earnings beat"},
		{"...", ""},
	}
	for _, c := range cases {
		if got := NormalizeTitle(c.in); got != c.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFingerprint_SameMinuteCollapses(t *testing.T) {
	base := time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC)
	jitter := base.Add(40 * time.Second)

	a := Fingerprint("apple hits record high", base)
	b := Fingerprint("apple hits record high", jitter)
	if a != b {
		t.Error("timestamps within the same minute should produce one fingerprint")
	}
}

func TestFingerprint_DifferentMinuteDiverges(t *testing.T) {
	base := time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC)
	later := base.Add(time.Hour)

	if Fingerprint("apple hits record high", base) == Fingerprint("apple hits record high", later) {
		t.Error("same title an hour apart should produce distinct fingerprints")
	}
	if Fingerprint("apple hits record high", base) == Fingerprint("apple misses estimates", base) {
		t.Error("different titles in the same minute should produce distinct fingerprints")
	}
}

func TestParsePublished(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"1741357805", time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC), true},
		{"1741357805000", time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC), true},
		{"20250307T143005", time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC), true},
		{"2025-03-07T14:30:05Z", time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC), true},
		{"2025-03-07 14:30:05", time.Date(2025, 3, 7, 14, 30, 5, 0, time.UTC), true},
		{"2025-03-07", time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, c := range cases {
		got, ok := ParsePublished(c.in)
		if ok != c.ok {
			t.Errorf("ParsePublished(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("ParsePublished(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("hello", 10); got != "hello" {
		t.Errorf("short input should pass through, got %q", got)
	}
	if got := truncateRunes("hello", 3); got != "hel" {
		t.Errorf("ASCII truncation should cut at max, got %q", got)
	}
	// "é" is 2 bytes; a 3-byte cap lands mid-rune and must back off.
	got := truncateRunes("aéé", 3)
	if got != "aé" {
		t.Errorf("expected rune-boundary backoff, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
}

func TestSourceReliability(t *testing.T) {
	if got := SourceReliability("Bloomberg"); got != 95 {
		t.Errorf("expected 95 for Bloomberg, got %.0f", got)
	}
	if got := SourceReliability("some random blog"); got != 50 {
		t.Errorf("expected unknown-source default 50, got %.0f", got)
	}
}
