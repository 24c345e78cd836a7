package estimator

import (
	"math"

	"SolPulse/internal/domain/models"
)

// Probability bounds after scoring. Confidence is additionally clamped to
// [0, 1] so retuning the rule table can never leak an out-of-range score.
const (
	probFloor   = 0.1
	probCeiling = 0.9
)

// Estimate maps an indicator snapshot, a horizon and the current price into
// a single HorizonPrediction. Additive scoring: each indicator category
// applies at most its first matching bracket, categories are independent.
func Estimate(ind models.Indicators, horizonMinutes int, currentPrice float64) models.HorizonPrediction {
	baseProb := 0.5
	confidence := 0.6

	// Volume analysis
	switch {
	case ind.RelativeVolume > 2.0:
		baseProb += 0.15
		confidence += 0.10
	case ind.RelativeVolume > 1.5:
		baseProb += 0.08
		confidence += 0.05
	case ind.RelativeVolume < 0.7:
		baseProb -= 0.10
		confidence -= 0.05
	}

	// Volume momentum
	switch {
	case ind.VolumeRateOfChange > 50:
		baseProb += 0.10
		confidence += 0.08
	case ind.VolumeRateOfChange < -30:
		baseProb -= 0.08
		confidence += 0.03
	}

	// Price momentum
	switch {
	case ind.Momentum > 5:
		baseProb += 0.12
		confidence += 0.10
	case ind.Momentum < -5:
		baseProb -= 0.12
		confidence += 0.10
	}

	// Trend strength
	switch {
	case ind.TrendStrength > 70:
		baseProb += 0.08
		confidence += 0.12
	case ind.TrendStrength < 30:
		baseProb += 0.05
		confidence += 0.05
	}

	// Longer horizons decay the edge
	switch horizonMinutes {
	case 15:
		// x1.0
	case 60:
		baseProb *= 0.95
	default:
		baseProb *= 0.9
	}

	baseProb = clamp(baseProb, probFloor, probCeiling)
	confidence = clamp(confidence, 0, 1)

	var trend models.TrendDirection
	switch {
	case baseProb > 0.65:
		trend = models.TrendBullish
	case baseProb < 0.35:
		trend = models.TrendBearish
	default:
		trend = models.TrendSideways
	}

	volatility := math.Max(0.01, math.Abs(ind.Momentum)/100)
	predicted := currentPrice * (1 + (baseProb-0.5)*0.05)
	halfWidth := predicted * volatility * 0.5

	return models.HorizonPrediction{
		HorizonMinutes:  horizonMinutes,
		ProbabilityUp:   baseProb,
		ProbabilityDown: 1 - baseProb,
		PredictedPrice:  predicted,
		PredictedRange: models.PriceRange{
			Min: predicted - halfWidth,
			Max: predicted + halfWidth,
		},
		TrendDirection: trend,
		Confidence:     confidence,
		Signals:        signalsFor(ind),
	}
}

// EstimateAll runs the estimator over every supported horizon, ascending.
func EstimateAll(ind models.Indicators, currentPrice float64) []models.HorizonPrediction {
	out := make([]models.HorizonPrediction, 0, len(models.Horizons))
	for _, h := range models.Horizons {
		out = append(out, Estimate(ind, h, currentPrice))
	}
	return out
}

func signalsFor(ind models.Indicators) []string {
	signals := make([]string, 0, 4)
	if ind.RelativeVolume > 1.5 {
		signals = append(signals, "momentum")
	}
	if ind.VolumeRateOfChange > 20 {
		signals = append(signals, "volume_momentum")
	}
	if ind.Momentum > 3 {
		signals = append(signals, "uptrend")
	}
	if ind.Momentum < -3 {
		signals = append(signals, "downtrend")
	}
	if math.Abs(ind.Momentum) < 2 {
		signals = append(signals, "sideways")
	}
	if ind.TrendStrength > 70 {
		signals = append(signals, "strong_trend")
	}
	return signals
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
