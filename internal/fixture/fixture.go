// Package fixture holds the pinned demo dataset substituted whenever live
// market data is unavailable. Values are fixed; provenance is tagged
// source="fixture" so consumers can tell them apart from live figures.
package fixture

import (
	"time"

	"SolPulse/internal/domain/models"
)

// Source tags fixture-backed records.
const Source = "fixture"

var pinnedAt = time.Date(2025, 11, 13, 18, 18, 54, 0, time.UTC)

func f64(v float64) *float64 { return &v }

// Prediction returns the pinned MarketPrediction. A fresh copy every call;
// callers may not share slices with other consumers.
func Prediction() *models.MarketPrediction {
	return &models.MarketPrediction{
		AssetID:  "solana:sol",
		Symbol:   "SOL/USDC",
		Base:     "SOL",
		Quote:    "USDC",
		Decimals: 9,
		Market: models.MarketData{
			CurrentPrice:   185.43,
			PriceChange24h: 2.15,
			Volume24h:      123456789.50,
			MarketCap:      f64(89000000000),
			Liquidity:      f64(45000000),
			LastTradeAt:    pinnedAt,
		},
		Predictions: []models.HorizonPrediction{
			{
				HorizonMinutes:  15,
				ProbabilityUp:   0.51,
				ProbabilityDown: 0.49,
				PredictedPrice:  186.05,
				PredictedRange:  models.PriceRange{Min: 184.8, Max: 187.3},
				TrendDirection:  models.TrendSideways,
				Confidence:      0.65,
				SampleSize:      900,
				Signals:         []string{"momentum", "sentiment"},
			},
			{
				HorizonMinutes:  60,
				ProbabilityUp:   0.62,
				ProbabilityDown: 0.38,
				PredictedPrice:  187.10,
				PredictedRange:  models.PriceRange{Min: 180.1, Max: 190.2},
				TrendDirection:  models.TrendBullish,
				Confidence:      0.78,
				SampleSize:      1200,
				Signals:         []string{"momentum", "sentiment"},
			},
			{
				HorizonMinutes:  240,
				ProbabilityUp:   0.58,
				ProbabilityDown: 0.42,
				PredictedPrice:  188.90,
				PredictedRange:  models.PriceRange{Min: 182.0, Max: 195.0},
				TrendDirection:  models.TrendBullish,
				Confidence:      0.72,
				SampleSize:      1500,
				Signals:         []string{"momentum", "sentiment"},
			},
		},
		ComputedAt:  pinnedAt,
		Source:      Source,
		Version:     "v1",
		LastUpdated: pinnedAt,
	}
}

// TrendingTokens returns the pinned related-token list.
func TrendingTokens() []models.TrendingToken {
	return []models.TrendingToken{
		{
			Symbol: "BONK", Name: "Bonk", Category: "meme",
			Price: 0.00003210, PriceChange24h: 5.35, Volume24h: 98765432.10,
			Liquidity: f64(12000000), MarketCap: f64(2100000000),
			Probability: 0.61, TrendDirection: models.TrendBullish,
			Confidence: 0.72, SampleSize: 1100,
			Tags: []string{"momentum", "sentiment"}, LastUpdated: pinnedAt,
		},
		{
			Symbol: "WIF", Name: "dogwifhat", Category: "meme",
			Price: 2.12, PriceChange24h: 3.80, Volume24h: 75432109.00,
			Liquidity: f64(9500000), MarketCap: f64(2120000000),
			Probability: 0.57, TrendDirection: models.TrendSideways,
			Confidence: 0.69, SampleSize: 950,
			Tags: []string{"momentum"}, LastUpdated: pinnedAt,
		},
		{
			Symbol: "SAMO", Name: "Samoyedcoin", Category: "meme",
			Price: 0.0185, PriceChange24h: -1.20, Volume24h: 15678900.00,
			Liquidity: f64(4200000), MarketCap: f64(150000000),
			Probability: 0.48, TrendDirection: models.TrendBearish,
			Confidence: 0.61, SampleSize: 800,
			Tags: []string{"sentiment"}, LastUpdated: pinnedAt,
		},
		{
			Symbol: "SOL", Name: "Solana", Category: "infra",
			Price: 185.43, PriceChange24h: 2.15, Volume24h: 123456789.50,
			Liquidity: f64(45000000), MarketCap: f64(89000000000),
			Probability: 0.62, TrendDirection: models.TrendBullish,
			Confidence: 0.78, SampleSize: 1200,
			Tags: []string{"momentum", "sentiment"}, LastUpdated: pinnedAt,
		},
	}
}

// Overview returns the pinned MarketOverview.
func Overview() *models.MarketOverview {
	return &models.MarketOverview{
		Symbol:         "SOL/USDC",
		Price:          185.43,
		PriceChange24h: 2.15,
		Volume24h:      123456789.50,
		MarketCap:      89000000000,
		Liquidity:      f64(45000000),
		Events24h:      7,
		KeyLevels: models.KeyLevels{
			Support:    []float64{180, 175},
			Resistance: []float64{190, 195},
		},
		ProbabilitiesByHorizon: []models.HorizonProbability{
			{Horizon: 15, Probability: 0.51},
			{Horizon: 60, Probability: 0.62},
			{Horizon: 240, Probability: 0.58},
		},
		UpdatedAt: pinnedAt,
	}
}

// Insights returns the pinned insight list.
func Insights() []models.Insight {
	return []models.Insight{
		{
			InsightID:   "ins-001",
			Title:       "Momentum Terkuat 60 Menit",
			Theme:       "momentum",
			Description: "Probabilitas naik SOL pada horizon 60 menit mencapai 62% dengan confidence 0.78, seiring lonjakan volume 24 jam.",
			TriggerRules: models.InsightTriggerRules{
				MinConfidence:  0.7,
				MinProbability: 0.6,
			},
			RelatedTokens: []string{"SOL"},
			MetricsSnapshot: map[string]float64{
				"sol_price":       185.43,
				"volume_24h":      123456789.50,
				"probability_60m": 0.62,
			},
			CreatedAt: pinnedAt,
			Source:    "explore_insights",
			Version:   "v1",
		},
	}
}
