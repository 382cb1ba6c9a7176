package analyzer

import (
	"errors"
	"testing"

	"StockPulse/internal/model"
	"StockPulse/internal/quotes"
)

func TestAnalyze_NeutralFallbackOnFetchFailure(t *testing.T) {
	a := New(&quotes.MockFetcher{Err: errors.New("connection refused")})
	snap := a.Analyze("AAPL")
	if snap.CurrentPrice != 0 {
		t.Errorf("expected zero current price, got %.2f", snap.CurrentPrice)
	}
	if snap.RSI14 != 50 {
		t.Errorf("expected neutral RSI 50, got %.2f", snap.RSI14)
	}
	if snap.Regime.Regime != model.RegimeNeutral || snap.Regime.Confidence != 50 {
		t.Errorf("expected neutral regime at 50, got %+v", snap.Regime)
	}
}

func TestAnalyze_HealthySeries(t *testing.T) {
	a := New(&quotes.MockFetcher{Price: 100})
	snap := a.Analyze("AAPL")

	if snap.CurrentPrice <= 0 {
		t.Fatalf("expected positive current price, got %.2f", snap.CurrentPrice)
	}
	if snap.SMA50 <= 0 || snap.SMA200 <= 0 {
		t.Errorf("expected moving averages, got SMA50=%.2f SMA200=%.2f", snap.SMA50, snap.SMA200)
	}
	if snap.RSI14 < 0 || snap.RSI14 > 100 {
		t.Errorf("RSI out of bounds: %.2f", snap.RSI14)
	}
	if snap.Confidence < 0 || snap.Confidence > 100 {
		t.Errorf("confidence out of bounds: %.2f", snap.Confidence)
	}
	if snap.PercentileRank.Market < 0 || snap.PercentileRank.Market > 100 {
		t.Errorf("percentile rank out of bounds: %.2f", snap.PercentileRank.Market)
	}
}

type windowFetcher struct {
	calls []int
}

func (w *windowFetcher) Name() string { return "window" }

func (w *windowFetcher) FetchDailyBars(_ string, days int) ([]model.OHLCV, error) {
	w.calls = append(w.calls, days)
	if days <= 365 {
		return quotes.GenerateBars(100, 30), nil
	}
	return quotes.GenerateBars(100, 250), nil
}

func TestAnalyze_WidensSparseWindow(t *testing.T) {
	f := &windowFetcher{}
	snap := New(f).Analyze("AAPL")

	sawWide := false
	for _, d := range f.calls {
		if d == 730 {
			sawWide = true
		}
	}
	if !sawWide {
		t.Fatalf("expected a widened 2y fetch after a sparse 1y window, calls: %v", f.calls)
	}
	if snap.CurrentPrice == 0 {
		t.Error("widened fetch should produce a usable snapshot")
	}
}

func TestRegimeDetector_NeutralOnFailure(t *testing.T) {
	d := NewRegimeDetector(&quotes.MockFetcher{Err: errors.New("timeout")})
	got := d.Current()
	if got.Regime != model.RegimeNeutral || got.Confidence != 50 {
		t.Errorf("expected neutral/50 on proxy fetch failure, got %+v", got)
	}
}
