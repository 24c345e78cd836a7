package repository

import (
	"context"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
	pkgkafka "SolPulse/pkg/kafka"
)

// KafkaPublisher forwards refreshed predictions to a Kafka topic, keyed by
// asset so downstream consumers see per-asset ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed prediction publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishPrediction(ctx context.Context, pred *models.MarketPrediction) error {
	return p.producer.Publish(ctx, p.topic, []byte(pred.AssetID), pred)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
