package ingest

import "strings"

// defaultReliability is assigned to sources absent from the lookup table.
const defaultReliability = 50

var sourceReliability = map[string]float64{
	"bloomberg":       95,
	"financial times": 90,
	"reuters":         85,
	"yahoo finance":   80,
}

// SourceReliability returns the static reliability score (0-100) for a news
// source name.
func SourceReliability(source string) float64 {
	if score, ok := sourceReliability[strings.ToLower(strings.TrimSpace(source))]; ok {
		return score
	}
	return defaultReliability
}
