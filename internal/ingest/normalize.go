package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// NormalizeTitle lowercases, strips punctuation and collapses whitespace so
// that trivially reworded duplicates hash to the same fingerprint.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	lastSpace := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Fingerprint hashes the normalized title together with the publication
// time truncated to the minute. The same story republished within the same
// minute collapses to one fingerprint; a repost an hour later does not.
func Fingerprint(normalizedTitle string, publishedAt time.Time) string {
	bucket := publishedAt.Unix() / 60 * 60
	sum := sha256.Sum256([]byte(normalizedTitle + "_" + strconv.FormatInt(bucket, 10)))
	return hex.EncodeToString(sum[:])
}

// truncateRunes caps s at max bytes without splitting a multi-byte rune at
// the boundary.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

var timestampLayouts = []string{
	"20060102T150405",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// ParsePublished turns a provider-native timestamp into UTC time. Numeric
// values are treated as epoch seconds, or milliseconds when implausibly
// large. Returns false when nothing matches.
func ParsePublished(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			n /= 1000
		}
		if n <= 0 {
			return time.Time{}, false
		}
		return time.Unix(n, 0).UTC(), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
