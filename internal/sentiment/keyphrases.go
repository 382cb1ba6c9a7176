package sentiment

import (
	"log"
	"strings"
	"unicode/utf8"
)

const (
	// maxExtractChars bounds the text sent to the extractor; longer text is
	// truncated, not rejected.
	maxExtractChars = 10000
	maxKeyPhrases   = 5
)

// Extractor is the opaque NLP call producing a topical fingerprint for text.
type Extractor interface {
	Extract(text string) ([]string, error)
}

// KeyPhraser wraps an Extractor with truncation, deduplication, and a hard
// cap on phrase count. Extraction failures yield an empty set, never an error.
type KeyPhraser struct {
	extractor Extractor
}

func NewKeyPhraser(extractor Extractor) *KeyPhraser {
	return &KeyPhraser{extractor: extractor}
}

// Phrases returns at most maxKeyPhrases deduplicated phrases for text.
func (k *KeyPhraser) Phrases(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" || k.extractor == nil {
		return nil
	}
	if len(text) > maxExtractChars {
		cut := maxExtractChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	raw, err := k.extractor.Extract(text)
	if err != nil {
		log.Printf("[WARN] key phrase extraction failed: %v", err)
		return nil
	}

	seen := make(map[string]bool, len(raw))
	var phrases []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" || seen[strings.ToLower(p)] {
			continue
		}
		seen[strings.ToLower(p)] = true
		phrases = append(phrases, p)
		if len(phrases) == maxKeyPhrases {
			break
		}
	}
	return phrases
}
