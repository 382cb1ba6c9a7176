package calculator

import (
	"testing"
	"time"

	"StockPulse/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, i-len(closes)),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestCalculateRSI_Bounds(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100 + float64(i)
		} else {
			closes[i] = 99 + float64(i)
		}
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of bounds: %.2f", rsi)
	}
}

func TestCalculateRSI_AllGainsStaysDefined(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := CalculateRSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 99 || rsi > 100 {
		t.Errorf("monotonic gains should push RSI toward 100, got %.4f", rsi)
	}
}

func TestCalculateRSI_InsufficientDataDefaults(t *testing.T) {
	rsi, err := CalculateRSI(barsFromCloses([]float64{100, 101, 102}), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50.0 {
		t.Errorf("expected default 50 on thin data, got %.2f", rsi)
	}
}

func TestCalculateSMA(t *testing.T) {
	sma, err := CalculateSMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 5 {
		t.Errorf("expected SMA 5 over last 3 values, got %.2f", sma)
	}
	if _, err := CalculateSMA([]float64{1, 2}, 3); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestCalculateMACD_CrossDirection(t *testing.T) {
	up := make([]float64, 100)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	macd, _, err := CalculateMACD(barsFromCloses(up))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if macd <= 0 {
		t.Errorf("steady uptrend should have positive MACD, got %.4f", macd)
	}
}

func TestCalculateOBV_SignFollowsTrend(t *testing.T) {
	up := []float64{100, 101, 102, 103, 104}
	obv, err := CalculateOBV(barsFromCloses(up))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obv <= 0 {
		t.Errorf("rising closes should accumulate positive OBV, got %.0f", obv)
	}

	down := []float64{104, 103, 102, 101, 100}
	obv, err = CalculateOBV(barsFromCloses(down))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obv >= 0 {
		t.Errorf("falling closes should accumulate negative OBV, got %.0f", obv)
	}
}

func TestCalculateVolatility_FlatSeriesIsZero(t *testing.T) {
	flat := make([]float64, 30)
	for i := range flat {
		flat[i] = 100
	}
	vol, err := CalculateVolatility(barsFromCloses(flat))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol != 0 {
		t.Errorf("flat series should have zero volatility, got %.6f", vol)
	}
}
