package repository

import (
	"context"

	"SolPulse/internal/domain/models"
)

// Publisher forwards refreshed predictions to downstream consumers.
type Publisher interface {
	PublishPrediction(ctx context.Context, p *models.MarketPrediction) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordRefresh(source, result string)
	RecordError(kind string)
	RecordLastPrice(asset string, price float64)
	RecordProbability(asset, horizon string, p float64)
	RecordLatency(op string, seconds float64)
}
