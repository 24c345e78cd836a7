package models

// Horizons are the forward windows (minutes) predictions target. Fixed.
var Horizons = []int{15, 60, 240}

// Indicators is the derived technical snapshot over a lookback window.
type Indicators struct {
	RelativeVolume     float64 `json:"relative_volume"`      // RVOL: last volume / trailing mean
	VolumeRateOfChange float64 `json:"volume_rate_of_change"` // VROC: pct change vs previous sample
	OnBalanceVolume    float64 `json:"on_balance_volume"`     // OBV: cumulative signed volume
	Momentum           float64 `json:"momentum"`              // pct price change over the window
	TrendStrength      float64 `json:"trend_strength"`        // pct of positive consecutive moves
}

// NeutralIndicators is the defined fallback when the window is too short.
func NeutralIndicators() Indicators {
	return Indicators{RelativeVolume: 1}
}

// TrendDirection labels the expected direction of a prediction.
type TrendDirection string

const (
	TrendBullish  TrendDirection = "bullish"
	TrendBearish  TrendDirection = "bearish"
	TrendSideways TrendDirection = "sideways"
)

// PriceRange bounds a predicted price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HorizonPrediction is one forecast for a specific horizon.
// ProbabilityUp + ProbabilityDown is always exactly 1, and
// PredictedRange.Min <= PredictedPrice <= PredictedRange.Max.
type HorizonPrediction struct {
	HorizonMinutes  int            `json:"horizon_minutes"`
	ProbabilityUp   float64        `json:"probability_up"`
	ProbabilityDown float64        `json:"probability_down"`
	PredictedPrice  float64        `json:"predicted_price"`
	PredictedRange  PriceRange     `json:"predicted_range"`
	TrendDirection  TrendDirection `json:"trend_direction"`
	Confidence      float64        `json:"confidence"`
	SampleSize      int            `json:"sample_size"`
	Signals         []string       `json:"signals"`
}

// Sentiment is the majority trend across all horizons.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// RiskLevel grades the prediction set by confidence vs range width.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// HorizonView is the per-horizon projection the UI renders.
type HorizonView struct {
	Probability float64    `json:"probability"`
	Confidence  float64    `json:"confidence"`
	Signal      string     `json:"signal"`
	Range       PriceRange `json:"range"`
}

// PredictionState is everything a presentation consumer needs: the current
// prediction (live or fixture), refresh status, and provenance.
type PredictionState struct {
	Prediction *MarketPrediction `json:"prediction"`
	Loading    bool              `json:"loading"`
	LastError  string            `json:"last_error,omitempty"`
	IsLive     bool              `json:"is_live"`
}
