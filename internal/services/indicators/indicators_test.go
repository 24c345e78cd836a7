package indicators

import (
	"math"
	"testing"
	"time"

	"SolPulse/internal/domain/models"
)

func mkSamples(prices, volumes []float64) []models.Sample {
	base := time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC)
	out := make([]models.Sample, len(prices))
	for i := range prices {
		out[i] = models.Sample{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Price:     prices[i],
			Volume:    volumes[i],
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeShortWindowIsNeutral(t *testing.T) {
	// Exactly 7 entries: below the 8-sample minimum regardless of content.
	prices := []float64{1, 2, 3, 4, 5, 6, 7}
	volumes := []float64{10, 20, 30, 40, 50, 60, 70}
	got := Compute(mkSamples(prices, volumes), 100)
	want := models.NeutralIndicators()
	if got != want {
		t.Fatalf("expected neutral indicators, got %+v", got)
	}
	if got.RelativeVolume != 1 || got.Momentum != 0 || got.TrendStrength != 0 {
		t.Fatalf("neutral tuple malformed: %+v", got)
	}
}

func TestComputeEmptyAndNil(t *testing.T) {
	if got := Compute(nil, 185.43); got != models.NeutralIndicators() {
		t.Fatalf("nil samples: expected neutral, got %+v", got)
	}
	if got := Compute([]models.Sample{}, 185.43); got != models.NeutralIndicators() {
		t.Fatalf("empty samples: expected neutral, got %+v", got)
	}
}

func TestComputeKnownSeries(t *testing.T) {
	// 8 samples, strictly rising prices, constant volume except the last.
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107}
	volumes := []float64{10, 10, 10, 10, 10, 10, 10, 40}
	got := Compute(mkSamples(prices, volumes), 110)

	// Trailing 7 volumes: 10x6 + 40 -> mean 100/7; rvol = 40 / (100/7) = 2.8
	if !almostEqual(got.RelativeVolume, 2.8) {
		t.Errorf("rvol: expected 2.8, got %v", got.RelativeVolume)
	}
	// (40-10)/10*100 = 300
	if !almostEqual(got.VolumeRateOfChange, 300) {
		t.Errorf("vroc: expected 300, got %v", got.VolumeRateOfChange)
	}
	// All up moves: 10*6 + 40 = 100
	if !almostEqual(got.OnBalanceVolume, 100) {
		t.Errorf("obv: expected 100, got %v", got.OnBalanceVolume)
	}
	// (110-100)/100*100 = 10
	if !almostEqual(got.Momentum, 10) {
		t.Errorf("momentum: expected 10, got %v", got.Momentum)
	}
	if !almostEqual(got.TrendStrength, 100) {
		t.Errorf("trend strength: expected 100, got %v", got.TrendStrength)
	}
}

func TestComputeOBVSigns(t *testing.T) {
	// up, down, flat, up
	prices := []float64{100, 105, 103, 103, 104, 104, 104, 104}
	volumes := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	got := Compute(mkSamples(prices, volumes), 104)
	// +2 -3 +0 +5 +0 +0 +0 = 4
	if !almostEqual(got.OnBalanceVolume, 4) {
		t.Errorf("obv: expected 4, got %v", got.OnBalanceVolume)
	}
	// positive moves: 2 of 7
	if !almostEqual(got.TrendStrength, 100*2.0/7.0) {
		t.Errorf("trend strength: expected %v, got %v", 100*2.0/7.0, got.TrendStrength)
	}
}

func TestComputeZeroMeanVolumeFallsBackToNeutralRVOL(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107}
	volumes := make([]float64, 8)
	got := Compute(mkSamples(prices, volumes), 107)
	if got.RelativeVolume != 1 {
		t.Fatalf("expected rvol fallback 1, got %v", got.RelativeVolume)
	}
	if got.VolumeRateOfChange != 0 {
		t.Fatalf("expected vroc 0 for zero previous volume, got %v", got.VolumeRateOfChange)
	}
}

func TestComputeDeterministic(t *testing.T) {
	prices := []float64{100, 99, 101, 98, 102, 97, 103, 96, 104}
	volumes := []float64{5, 7, 6, 8, 5, 9, 4, 10, 3}
	a := Compute(mkSamples(prices, volumes), 100.5)
	b := Compute(mkSamples(prices, volumes), 100.5)
	if a != b {
		t.Fatalf("expected identical output, got %+v vs %+v", a, b)
	}
}
