package sentiment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HFModel calls a hosted FinBERT-class model through the HuggingFace
// inference API. It satisfies Model; all degradation policy lives in Scorer.
type HFModel struct {
	client *resty.Client
}

// NewHFModel builds a Model against the given inference endpoint.
func NewHFModel(endpoint, token string, timeout time.Duration) *HFModel {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &HFModel{client: client}
}

type hfClassification struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (m *HFModel) Classify(text string) (string, float64, error) {
	resp, err := m.client.R().
		SetBody(map[string]string{"inputs": text}).
		Post("")
	if err != nil {
		return "", 0, fmt.Errorf("inference request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", 0, fmt.Errorf("inference: status %d", resp.StatusCode())
	}

	// The API nests results one level: [[{label, score}, ...]].
	var nested [][]hfClassification
	if err := json.Unmarshal(resp.Body(), &nested); err != nil {
		var flat []hfClassification
		if err2 := json.Unmarshal(resp.Body(), &flat); err2 != nil {
			return "", 0, fmt.Errorf("inference decode: %w", err)
		}
		nested = [][]hfClassification{flat}
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return "", 0, fmt.Errorf("inference: empty result")
	}

	best := nested[0][0]
	for _, c := range nested[0][1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best.Label, best.Score, nil
}

// HFExtractor extracts key phrases via a hosted keyword-extraction model.
type HFExtractor struct {
	client *resty.Client
}

func NewHFExtractor(endpoint, token string, timeout time.Duration) *HFExtractor {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout)
	if token != "" {
		client.SetAuthToken(token)
	}
	return &HFExtractor{client: client}
}

type hfPhrase struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

func (e *HFExtractor) Extract(text string) ([]string, error) {
	resp, err := e.client.R().
		SetBody(map[string]string{"inputs": text}).
		Post("")
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("extraction: status %d", resp.StatusCode())
	}

	var phrases []hfPhrase
	if err := json.Unmarshal(resp.Body(), &phrases); err != nil {
		return nil, fmt.Errorf("extraction decode: %w", err)
	}

	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if w := strings.TrimSpace(p.Word); w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}
