package usecase

import (
	"fmt"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/fixture"
)

// Key level offsets around the current price, nearest first.
var (
	supportFactors    = []float64{0.97, 0.94}
	resistanceFactors = []float64{1.03, 1.06}
)

// Insight trigger thresholds.
const (
	insightMinProbability = 0.6
	insightMinConfidence  = 0.7
)

// buildOverview derives the dashboard summary from a live prediction.
func buildOverview(pred *models.MarketPrediction) *models.MarketOverview {
	price := pred.Market.CurrentPrice
	levels := models.KeyLevels{
		Support:    []float64{price * supportFactors[0], price * supportFactors[1]},
		Resistance: []float64{price * resistanceFactors[0], price * resistanceFactors[1]},
	}

	probs := make([]models.HorizonProbability, 0, len(pred.Predictions))
	events := 0
	for _, hp := range pred.Predictions {
		probs = append(probs, models.HorizonProbability{
			Horizon:     hp.HorizonMinutes,
			Probability: hp.ProbabilityUp,
		})
		events += len(hp.Signals)
	}

	ov := &models.MarketOverview{
		Symbol:                 pred.Symbol,
		Price:                  price,
		PriceChange24h:         pred.Market.PriceChange24h,
		Volume24h:              pred.Market.Volume24h,
		Liquidity:              pred.Market.Liquidity,
		Events24h:              events,
		KeyLevels:              levels,
		ProbabilitiesByHorizon: probs,
		UpdatedAt:              pred.ComputedAt,
	}
	if pred.Market.MarketCap != nil {
		ov.MarketCap = *pred.Market.MarketCap
	}
	return ov
}

// buildInsights generates one insight per horizon whose probability and
// confidence clear the trigger thresholds. When nothing clears them the
// pinned fixture insight is served so the feed is never empty.
func buildInsights(pred *models.MarketPrediction) []models.Insight {
	now := time.Now().UTC()
	var out []models.Insight
	for _, hp := range pred.Predictions {
		if hp.ProbabilityUp < insightMinProbability || hp.Confidence < insightMinConfidence {
			continue
		}
		out = append(out, models.Insight{
			InsightID: fmt.Sprintf("ins-%s-%dm", pred.Base, hp.HorizonMinutes),
			Title:     fmt.Sprintf("Momentum %d Menit", hp.HorizonMinutes),
			Theme:     "momentum",
			Description: fmt.Sprintf(
				"Probabilitas naik %s pada horizon %d menit mencapai %.0f%% dengan confidence %.2f.",
				pred.Base, hp.HorizonMinutes, hp.ProbabilityUp*100, hp.Confidence),
			TriggerRules: models.InsightTriggerRules{
				MinConfidence:  insightMinConfidence,
				MinProbability: insightMinProbability,
			},
			RelatedTokens: []string{pred.Base},
			MetricsSnapshot: map[string]float64{
				"price":       pred.Market.CurrentPrice,
				"volume_24h":  pred.Market.Volume24h,
				"probability": hp.ProbabilityUp,
				"confidence":  hp.Confidence,
			},
			CreatedAt: now,
			Source:    "explore_insights",
			Version:   liveVersion,
		})
	}
	if len(out) == 0 {
		return fixture.Insights()
	}
	return out
}

// Sentiment is the majority trend across all horizons; a tie is neutral.
func Sentiment(preds []models.HorizonPrediction) models.Sentiment {
	var bullish, bearish int
	for _, hp := range preds {
		switch hp.TrendDirection {
		case models.TrendBullish:
			bullish++
		case models.TrendBearish:
			bearish++
		}
	}
	switch {
	case bullish > bearish:
		return models.SentimentBullish
	case bearish > bullish:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

// Risk grades the prediction set: high confidence with tight ranges is low
// risk, low confidence or wide ranges is high, everything else medium.
// Range width is normalized by the predicted price so the grade does not
// depend on the asset's absolute price.
func Risk(preds []models.HorizonPrediction) models.RiskLevel {
	if len(preds) == 0 {
		return models.RiskMedium
	}

	var confSum, widthSum float64
	for _, hp := range preds {
		confSum += hp.Confidence
		if hp.PredictedPrice > 0 {
			widthSum += (hp.PredictedRange.Max - hp.PredictedRange.Min) / hp.PredictedPrice
		}
	}
	conf := confSum / float64(len(preds))
	width := widthSum / float64(len(preds))

	switch {
	case conf > 0.8 && width < 0.05:
		return models.RiskLow
	case conf < 0.6 || width > 0.1:
		return models.RiskHigh
	default:
		return models.RiskMedium
	}
}

// HorizonLookup projects the prediction for one horizon into the view the
// UI renders: the trend label doubles as the signal. An unknown horizon (or
// no prediction at all) yields coin-flip defaults with a "neutral" signal.
func HorizonLookup(pred *models.MarketPrediction, minutes int) models.HorizonView {
	if pred != nil {
		for _, hp := range pred.Predictions {
			if hp.HorizonMinutes != minutes {
				continue
			}
			return models.HorizonView{
				Probability: hp.ProbabilityUp,
				Confidence:  hp.Confidence,
				Signal:      string(hp.TrendDirection),
				Range:       hp.PredictedRange,
			}
		}
	}
	return models.HorizonView{
		Probability: 0.5,
		Confidence:  0.5,
		Signal:      "neutral",
	}
}
