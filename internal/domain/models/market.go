package models

import "time"

// Sample is one observation from the historical chart: price and traded
// volume at a point in time. Ordered ascending by timestamp.
type Sample struct {
	Timestamp time.Time
	Price     float64
	Volume    float64
}

// MarketData is the current market snapshot for the tracked asset.
// MarketCap and Liquidity are optional on the provider side; absent values
// stay nil rather than defaulting to zero.
type MarketData struct {
	CurrentPrice   float64   `json:"current_price"`
	PriceChange24h float64   `json:"price_change_24h"`
	Volume24h      float64   `json:"volume_24h"`
	MarketCap      *float64  `json:"market_cap,omitempty"`
	Liquidity      *float64  `json:"liquidity,omitempty"`
	LastTradeAt    time.Time `json:"last_trade_at"`
}

// AssetSnapshot is a provider market row for a single asset.
type AssetSnapshot struct {
	ID     string
	Symbol string
	Name   string
	Market MarketData
}

// TokenMarket is a provider market row for a related ecosystem token.
type TokenMarket struct {
	ID             string
	Symbol         string
	Name           string
	Price          float64
	PriceChange24h float64
	Volume24h      float64
	MarketCap      *float64
	LastUpdated    time.Time
}

// MarketPrediction is the top-level aggregate handed to consumers: asset
// identity, market snapshot and one HorizonPrediction per supported horizon,
// sorted ascending. Replaced wholesale on every refresh, never patched.
type MarketPrediction struct {
	AssetID     string              `json:"asset_id"`
	Symbol      string              `json:"symbol"`
	Base        string              `json:"base"`
	Quote       string              `json:"quote"`
	Decimals    int                 `json:"decimals"`
	Market      MarketData          `json:"market"`
	Predictions []HorizonPrediction `json:"predictions"`
	ComputedAt  time.Time           `json:"computed_at"`
	Source      string              `json:"source"`
	Version     string              `json:"version"`
	LastUpdated time.Time           `json:"last_updated"`
}

// TrendingToken is a related token with a derived probability figure.
type TrendingToken struct {
	Symbol         string         `json:"symbol"`
	Name           string         `json:"name"`
	Category       string         `json:"category"` // meme, degen, infra, stable
	Price          float64        `json:"price"`
	PriceChange24h float64        `json:"price_change_24h"`
	Volume24h      float64        `json:"volume_24h"`
	Liquidity      *float64       `json:"liquidity,omitempty"`
	MarketCap      *float64       `json:"market_cap,omitempty"`
	Probability    float64        `json:"probability"`
	TrendDirection TrendDirection `json:"trend_direction"`
	Confidence     float64        `json:"confidence"`
	SampleSize     int            `json:"sample_size"`
	Tags           []string       `json:"tags"`
	LastUpdated    time.Time      `json:"last_updated"`
}

// KeyLevels holds support and resistance price levels.
type KeyLevels struct {
	Support    []float64 `json:"support"`
	Resistance []float64 `json:"resistance"`
}

// HorizonProbability pairs a horizon with its probability-of-up.
type HorizonProbability struct {
	Horizon     int     `json:"horizon"`
	Probability float64 `json:"probability"`
}

// MarketOverview is the summary view rendered on the dashboard.
type MarketOverview struct {
	Symbol                string               `json:"symbol"`
	Price                 float64              `json:"price"`
	PriceChange24h        float64              `json:"price_change_24h"`
	Volume24h             float64              `json:"volume_24h"`
	MarketCap             float64              `json:"market_cap"`
	Liquidity             *float64             `json:"liquidity,omitempty"`
	Events24h             int                  `json:"events_24h"`
	KeyLevels             KeyLevels            `json:"key_levels"`
	ProbabilitiesByHorizon []HorizonProbability `json:"probabilities_by_horizon"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

// InsightTriggerRules holds the thresholds an insight was generated under.
type InsightTriggerRules struct {
	MinConfidence  float64 `json:"min_confidence"`
	MinProbability float64 `json:"min_probability"`
}

// Insight is a generated highlight over the current prediction set.
type Insight struct {
	InsightID       string              `json:"insight_id"`
	Title           string              `json:"title"`
	Theme           string              `json:"theme"` // momentum, mean_reversion, event, liquidity
	Description     string              `json:"description"`
	TriggerRules    InsightTriggerRules `json:"trigger_rules"`
	RelatedTokens   []string            `json:"related_tokens"`
	MetricsSnapshot map[string]float64  `json:"metrics_snapshot"`
	CreatedAt       time.Time           `json:"created_at"`
	Source          string              `json:"source"`
	Version         string              `json:"version"`
}
