package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"SolPulse/internal/domain/models"
	drepo "SolPulse/internal/domain/repository"
	domsvc "SolPulse/internal/domain/service"
	"SolPulse/internal/fixture"
	"SolPulse/internal/services/estimator"
	"SolPulse/internal/services/indicators"
	"SolPulse/pkg/logger"
)

// fallbackMessage is surfaced to consumers when live data cannot be fetched
// and the pinned demo dataset is served instead.
const fallbackMessage = "Gagal mengambil data real-time. Menggunakan data demo."

const (
	quoteSymbol   = "USDC"
	assetDecimals = 9
	liveVersion   = "v2"
)

// AggregatorConfig carries the asset and lookback parameters for refreshes.
type AggregatorConfig struct {
	AssetID      string
	LookbackDays int
	TrendingIDs  []string
}

// Aggregator owns the current prediction state. It starts on the pinned
// fixture dataset and replaces the whole state atomically on every
// successful refresh; a failed refresh falls back to the fixture with the
// error recorded. Refreshes are single-flight: a call that arrives while
// one is running is a no-op.
type Aggregator struct {
	provider domsvc.MarketDataProvider
	pub      drepo.Publisher
	metrics  drepo.Metrics
	log      *logger.Logger
	cfg      AggregatorConfig

	mu       sync.Mutex
	inFlight bool
	live     bool
	state    models.PredictionState
	trending []models.TrendingToken
	overview *models.MarketOverview
	insights []models.Insight
	onUpdate func(models.PredictionState)
}

// NewAggregator creates an Aggregator seeded with the fixture dataset.
// pub may be nil when no downstream publishing is configured.
func NewAggregator(
	provider domsvc.MarketDataProvider,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	log *logger.Logger,
	cfg AggregatorConfig,
) *Aggregator {
	return &Aggregator{
		provider: provider,
		pub:      pub,
		metrics:  metrics,
		log:      log,
		cfg:      cfg,
		state:    models.PredictionState{Prediction: fixture.Prediction()},
		trending: fixture.TrendingTokens(),
		overview: fixture.Overview(),
		insights: fixture.Insights(),
	}
}

// SetOnUpdate registers a callback invoked after every state replacement.
// Must be called before the first Refresh.
func (a *Aggregator) SetOnUpdate(fn func(models.PredictionState)) {
	a.mu.Lock()
	a.onUpdate = fn
	a.mu.Unlock()
}

// State returns the current prediction state.
func (a *Aggregator) State() models.PredictionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Trending returns the current related-token list.
func (a *Aggregator) Trending() []models.TrendingToken {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.TrendingToken, len(a.trending))
	copy(out, a.trending)
	return out
}

// Overview returns the current market overview.
func (a *Aggregator) Overview() *models.MarketOverview {
	a.mu.Lock()
	defer a.mu.Unlock()
	ov := *a.overview
	return &ov
}

// Insights returns the current insight list.
func (a *Aggregator) Insights() []models.Insight {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Insight, len(a.insights))
	copy(out, a.insights)
	return out
}

// MarkLive flags whether auto-refresh is active. Owned by the Refresher.
func (a *Aggregator) MarkLive(live bool) {
	a.mu.Lock()
	a.live = live
	a.state.IsLive = live
	a.mu.Unlock()
}

// ResetToFixture restores the pinned demo dataset, clearing any error.
func (a *Aggregator) ResetToFixture() {
	a.mu.Lock()
	a.state = models.PredictionState{Prediction: fixture.Prediction(), IsLive: a.live}
	a.trending = fixture.TrendingTokens()
	a.overview = fixture.Overview()
	a.insights = fixture.Insights()
	fn, st := a.onUpdate, a.state
	a.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// Refresh fetches live data, recomputes predictions and replaces the state.
// A concurrent call while a refresh is in flight returns immediately. On
// provider failure the fixture dataset is installed with LastError set; the
// error is not returned to the caller since the fallback is the contract.
// Results arriving after ctx is cancelled are discarded.
func (a *Aggregator) Refresh(ctx context.Context) error {
	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return nil
	}
	a.inFlight = true
	a.state.Loading = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight = false
		a.state.Loading = false
		a.mu.Unlock()
	}()

	start := time.Now()
	pred, trending, err := a.fetch(ctx)
	a.metrics.RecordLatency("refresh", time.Since(start).Seconds())

	if ctx.Err() != nil {
		// Cancelled mid-flight: whatever we fetched no longer has an owner.
		return ctx.Err()
	}
	if err != nil {
		a.log.Warn("refresh failed, falling back to fixture data",
			logger.String("asset", a.cfg.AssetID),
			logger.Error(err))
		a.metrics.RecordError("provider")
		a.metrics.RecordRefresh(fixture.Source, "fallback")
		a.installFallback()
		return nil
	}

	a.metrics.RecordRefresh(pred.Source, "success")
	a.metrics.RecordLastPrice(pred.AssetID, pred.Market.CurrentPrice)
	for _, hp := range pred.Predictions {
		a.metrics.RecordProbability(pred.AssetID, fmt.Sprintf("%dm", hp.HorizonMinutes), hp.ProbabilityUp)
	}

	a.install(pred, trending)

	if a.pub != nil {
		if perr := a.pub.PublishPrediction(ctx, pred); perr != nil {
			a.log.Warn("prediction publish failed", logger.Error(perr))
		}
	}
	return nil
}

// fetch pulls the snapshot, history and related tokens, and derives the
// full prediction. The related-token fetch is best effort: its failure
// leaves the previous trending list in place rather than failing the
// refresh.
func (a *Aggregator) fetch(ctx context.Context) (*models.MarketPrediction, []models.TrendingToken, error) {
	snap, err := a.provider.Snapshot(ctx, a.cfg.AssetID)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: %w", err)
	}

	samples, err := a.provider.MarketChart(ctx, a.cfg.AssetID, a.cfg.LookbackDays)
	if err != nil {
		return nil, nil, fmt.Errorf("market chart: %w", err)
	}

	ind := indicators.Compute(samples, snap.Market.CurrentPrice)
	preds := estimator.EstimateAll(ind, snap.Market.CurrentPrice)
	for i := range preds {
		preds[i].SampleSize = len(samples)
	}

	market := snap.Market
	if market.MarketCap != nil && market.Liquidity == nil {
		// Liquidity is not exposed on the markets endpoint; approximate it
		// as a tenth of market cap, matching the demo dataset's ratio.
		liq := *market.MarketCap * 0.1
		market.Liquidity = &liq
	}

	base := strings.ToUpper(snap.Symbol)
	now := time.Now().UTC()
	pred := &models.MarketPrediction{
		AssetID:     snap.ID,
		Symbol:      base + "/" + quoteSymbol,
		Base:        base,
		Quote:       quoteSymbol,
		Decimals:    assetDecimals,
		Market:      market,
		Predictions: preds,
		ComputedAt:  now,
		Source:      a.provider.Name(),
		Version:     liveVersion,
		LastUpdated: market.LastTradeAt,
	}

	var trending []models.TrendingToken
	if len(a.cfg.TrendingIDs) > 0 {
		markets, merr := a.provider.Markets(ctx, a.cfg.TrendingIDs)
		if merr != nil {
			a.log.Warn("trending fetch failed, keeping previous list", logger.Error(merr))
		} else {
			trending = buildTrending(markets)
		}
	}

	return pred, trending, nil
}

// install replaces the state and all derived views under one lock.
func (a *Aggregator) install(pred *models.MarketPrediction, trending []models.TrendingToken) {
	ov := buildOverview(pred)
	ins := buildInsights(pred)

	a.mu.Lock()
	a.state = models.PredictionState{Prediction: pred, IsLive: a.live}
	if trending != nil {
		a.trending = trending
	}
	a.overview = ov
	a.insights = ins
	fn, st := a.onUpdate, a.state
	a.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

func (a *Aggregator) installFallback() {
	a.mu.Lock()
	a.state = models.PredictionState{
		Prediction: fixture.Prediction(),
		LastError:  fallbackMessage,
		IsLive:     a.live,
	}
	a.trending = fixture.TrendingTokens()
	a.overview = fixture.Overview()
	a.insights = fixture.Insights()
	fn, st := a.onUpdate, a.state
	a.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

// buildTrending derives a probability figure per related token from its 24h
// change alone; per-token history is not fetched, so volume indicators stay
// neutral.
func buildTrending(markets []models.TokenMarket) []models.TrendingToken {
	out := make([]models.TrendingToken, 0, len(markets))
	for _, tm := range markets {
		ind := models.Indicators{
			RelativeVolume: 1,
			Momentum:       tm.PriceChange24h,
			TrendStrength:  50,
		}
		hp := estimator.Estimate(ind, 60, tm.Price)

		out = append(out, models.TrendingToken{
			Symbol:         tm.Symbol,
			Name:           tm.Name,
			Category:       categoryFor(tm.Symbol),
			Price:          tm.Price,
			PriceChange24h: tm.PriceChange24h,
			Volume24h:      tm.Volume24h,
			MarketCap:      tm.MarketCap,
			Probability:    hp.ProbabilityUp,
			TrendDirection: hp.TrendDirection,
			Confidence:     hp.Confidence,
			Tags:           hp.Signals,
			LastUpdated:    tm.LastUpdated,
		})
	}
	return out
}

func categoryFor(symbol string) string {
	switch strings.ToUpper(symbol) {
	case "BONK", "WIF", "SAMO":
		return "meme"
	case "SOL":
		return "infra"
	case "USDC", "USDT":
		return "stable"
	default:
		return "degen"
	}
}
