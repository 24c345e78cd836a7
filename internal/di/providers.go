package di

import (
	"context"
	"fmt"
	"time"

	"SolPulse/internal/domain/repository"
	domsvc "SolPulse/internal/domain/service"
	"SolPulse/internal/handler/api"
	internalrepo "SolPulse/internal/repository"
	"SolPulse/internal/service/coingecko"
	"SolPulse/internal/usecase"
	pkgcache "SolPulse/pkg/cache"
	"SolPulse/pkg/config"
	xhttp "SolPulse/pkg/http"
	pkgkafka "SolPulse/pkg/kafka"
	applogger "SolPulse/pkg/logger"
	"SolPulse/pkg/metrics"
	"SolPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the provider response cache, or nil when disabled.
func ProvideCache(cfg *config.Config) (pkgcache.Cache, error) {
	switch cfg.Cache.Type {
	case "memory":
		return pkgcache.NewMemoryCache(), nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pkgcache.NewRedisCache(ctx, pkgcache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   "solpulse",
		})
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Cache.Type)
	}
}

// ProvideMarketDataProvider creates the CoinGecko client.
func ProvideMarketDataProvider(cfg *config.Config, cache pkgcache.Cache) domsvc.MarketDataProvider {
	opts := []coingecko.Option{
		coingecko.WithVsCurrency(cfg.Provider.VsCurrency),
		coingecko.WithHTTPTimeout(cfg.Provider.Timeout),
	}
	if cfg.Provider.APIKey != "" {
		opts = append(opts, coingecko.WithAPIKey(cfg.Provider.APIKey))
	}
	if cache != nil {
		opts = append(opts, coingecko.WithCache(cache, cfg.Provider.CacheTTL))
	}
	if cfg.Provider.RateLimit.Capacity > 0 {
		opts = append(opts, coingecko.WithRateLimit(
			cfg.Provider.RateLimit.Capacity,
			cfg.Provider.RateLimit.RefillPerSec,
		))
	}
	return coingecko.New(cfg.Provider.BaseURL, opts...)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePredictionPublisher creates the Kafka publisher, or nil when the
// producer is disabled.
func ProvidePredictionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideAggregator creates the prediction aggregator.
func ProvideAggregator(
	provider domsvc.MarketDataProvider,
	pub repository.Publisher,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.Aggregator {
	return usecase.NewAggregator(provider, pub, m, log, usecase.AggregatorConfig{
		AssetID:      cfg.Provider.AssetID,
		LookbackDays: cfg.Provider.LookbackDays,
		TrendingIDs:  cfg.Provider.TrendingIDs,
	})
}

// ProvideRefresher creates the live-mode refresh loop.
func ProvideRefresher(agg *usecase.Aggregator, log *applogger.Logger) *usecase.Refresher {
	return usecase.NewRefresher(agg, usecase.RefreshInterval, log)
}

// ProvideStreamHub creates the WebSocket broadcast hub.
func ProvideStreamHub(log *applogger.Logger, agg *usecase.Aggregator) *api.StreamHub {
	return api.NewStreamHub(log, agg.State)
}

// ProvideMarketHandler creates the prediction API handler.
func ProvideMarketHandler(log *applogger.Logger, agg *usecase.Aggregator, r *usecase.Refresher) *api.MarketHandler {
	return api.NewMarketHandler(log, agg, r)
}

// ProvideHTTPHandler combines the REST and WebSocket handlers.
func ProvideHTTPHandler(market *api.MarketHandler, hub *api.StreamHub) xhttp.Handler {
	return xhttp.Handlers(market, hub)
}

// ProvideApp assembles the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	agg *usecase.Aggregator,
	refresher *usecase.Refresher,
	hub *api.StreamHub,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	cache pkgcache.Cache,
) *server.App {
	return server.New(cfg, log, agg, refresher, hub, handler, producer, cache)
}
