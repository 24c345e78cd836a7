package indicators

import "SolPulse/internal/domain/models"

// MinSamples is the smallest window that yields non-degenerate indicators:
// seven trailing samples for the volume average plus one prior.
const MinSamples = 8

const trailingWindow = 7

// Compute derives the indicator snapshot from a chronologically ascending
// sample window and an independently fetched live price. Pure and
// deterministic; shorter windows return the neutral tuple instead of failing.
func Compute(samples []models.Sample, currentPrice float64) models.Indicators {
	if len(samples) < MinSamples {
		return models.NeutralIndicators()
	}

	last := samples[len(samples)-1]

	// RVOL: last volume over the trailing-window mean. A zero mean would
	// divide to infinity; fall back to the neutral 1.0 instead.
	var volSum float64
	for _, s := range samples[len(samples)-trailingWindow:] {
		volSum += s.Volume
	}
	meanVol := volSum / trailingWindow
	rvol := 1.0
	if meanVol > 0 {
		rvol = last.Volume / meanVol
	}

	// VROC: pct volume change vs the previous sample; 0 when the previous
	// volume is 0.
	prevVol := samples[len(samples)-2].Volume
	vroc := 0.0
	if prevVol > 0 {
		vroc = (last.Volume - prevVol) / prevVol * 100
	}

	// OBV: add volume on up moves, subtract on down moves, skip flats.
	var obv float64
	for i := 1; i < len(samples); i++ {
		switch {
		case samples[i].Price > samples[i-1].Price:
			obv += samples[i].Volume
		case samples[i].Price < samples[i-1].Price:
			obv -= samples[i].Volume
		}
	}

	// Momentum: pct change of the live price vs the window's first sample.
	momentum := 0.0
	if first := samples[0].Price; first > 0 {
		momentum = (currentPrice - first) / first * 100
	}

	// Trend strength: share of consecutive moves that are positive.
	var positive int
	for i := 1; i < len(samples); i++ {
		if samples[i].Price > samples[i-1].Price {
			positive++
		}
	}
	trend := 100 * float64(positive) / float64(len(samples)-1)

	return models.Indicators{
		RelativeVolume:     rvol,
		VolumeRateOfChange: vroc,
		OnBalanceVolume:    obv,
		Momentum:           momentum,
		TrendStrength:      trend,
	}
}
