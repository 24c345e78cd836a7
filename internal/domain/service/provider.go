package service

import (
	"context"

	"SolPulse/internal/domain/models"
)

// MarketDataProvider fetches market data for assets from an external source.
type MarketDataProvider interface {
	// Name identifies the provider for provenance tagging.
	Name() string
	// Snapshot returns the current market row for one asset.
	Snapshot(ctx context.Context, assetID string) (models.AssetSnapshot, error)
	// MarketChart returns the historical price/volume series for the
	// lookback window, ordered ascending by timestamp.
	MarketChart(ctx context.Context, assetID string, days int) ([]models.Sample, error)
	// Markets returns market rows for a set of related tokens.
	Markets(ctx context.Context, ids []string) ([]models.TokenMarket, error)
}
