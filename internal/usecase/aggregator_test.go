package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/fixture"
	"SolPulse/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string, string)          {}
func (nopMetrics) RecordError(string)                    {}
func (nopMetrics) RecordLastPrice(string, float64)       {}
func (nopMetrics) RecordProbability(string, string, float64) {}
func (nopMetrics) RecordLatency(string, float64)         {}

// mockProvider serves canned data, counts calls and can fail or block.
type mockProvider struct {
	mu        sync.Mutex
	snapshots int32
	fail      bool
	block     chan struct{} // when set, Snapshot blocks until closed
	samples   []models.Sample
	price     float64
}

func (m *mockProvider) Name() string { return "coingecko" }

func (m *mockProvider) Snapshot(ctx context.Context, assetID string) (models.AssetSnapshot, error) {
	atomic.AddInt32(&m.snapshots, 1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return models.AssetSnapshot{}, ctx.Err()
		}
	}
	if m.fail {
		return models.AssetSnapshot{}, errors.New("provider down")
	}
	mc := 87e9
	return models.AssetSnapshot{
		ID:     assetID,
		Symbol: "sol",
		Name:   "Solana",
		Market: models.MarketData{
			CurrentPrice:   m.price,
			PriceChange24h: 2.5,
			Volume24h:      2.4e9,
			MarketCap:      &mc,
			LastTradeAt:    time.Now().UTC(),
		},
	}, nil
}

func (m *mockProvider) MarketChart(ctx context.Context, assetID string, days int) ([]models.Sample, error) {
	if m.fail {
		return nil, errors.New("provider down")
	}
	return m.samples, nil
}

func (m *mockProvider) Markets(ctx context.Context, ids []string) ([]models.TokenMarket, error) {
	if m.fail {
		return nil, errors.New("provider down")
	}
	return []models.TokenMarket{
		{ID: "bonk", Symbol: "BONK", Name: "Bonk", Price: 0.00003, PriceChange24h: 8, Volume24h: 9e7, LastUpdated: time.Now().UTC()},
	}, nil
}

func risingSamples(n int, start float64) []models.Sample {
	out := make([]models.Sample, n)
	ts := time.Now().UTC().Add(-time.Duration(n) * time.Hour)
	for i := range out {
		out[i] = models.Sample{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Price:     start + float64(i),
			Volume:    1e9 + float64(i)*1e7,
		}
	}
	return out
}

func newTestAggregator(p *mockProvider) *Aggregator {
	return NewAggregator(p, nil, nopMetrics{}, logger.Nop(), AggregatorConfig{
		AssetID:      "solana",
		LookbackDays: 7,
		TrendingIDs:  []string{"bonk"},
	})
}

func TestAggregatorStartsOnFixture(t *testing.T) {
	agg := newTestAggregator(&mockProvider{})
	st := agg.State()

	if st.Prediction == nil {
		t.Fatal("initial state must carry a prediction")
	}
	if st.Prediction.Source != fixture.Source {
		t.Errorf("Source = %q, want %q", st.Prediction.Source, fixture.Source)
	}
	if st.LastError != "" || st.Loading || st.IsLive {
		t.Errorf("initial state flags = %+v, want all clear", st)
	}
}

func TestRefreshSuccess(t *testing.T) {
	p := &mockProvider{samples: risingSamples(24, 160), price: 185.43}
	agg := newTestAggregator(p)

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	st := agg.State()
	if st.Prediction.Source != "coingecko" {
		t.Errorf("Source = %q, want coingecko", st.Prediction.Source)
	}
	if st.Prediction.Version != "v2" {
		t.Errorf("Version = %q, want v2", st.Prediction.Version)
	}
	if st.Prediction.Symbol != "SOL/USDC" {
		t.Errorf("Symbol = %q, want SOL/USDC", st.Prediction.Symbol)
	}
	if st.LastError != "" {
		t.Errorf("LastError = %q, want empty", st.LastError)
	}
	if len(st.Prediction.Predictions) != len(models.Horizons) {
		t.Fatalf("got %d horizon predictions, want %d", len(st.Prediction.Predictions), len(models.Horizons))
	}
	for i, hp := range st.Prediction.Predictions {
		if hp.HorizonMinutes != models.Horizons[i] {
			t.Errorf("predictions[%d].Horizon = %d, want %d", i, hp.HorizonMinutes, models.Horizons[i])
		}
		if hp.SampleSize != 24 {
			t.Errorf("predictions[%d].SampleSize = %d, want 24", i, hp.SampleSize)
		}
	}
	if st.Prediction.Market.Liquidity == nil || *st.Prediction.Market.Liquidity != 8.7e9 {
		t.Errorf("Liquidity = %v, want 8.7e9 (a tenth of market cap)", st.Prediction.Market.Liquidity)
	}

	trending := agg.Trending()
	if len(trending) != 1 || trending[0].Symbol != "BONK" {
		t.Fatalf("Trending() = %+v, want BONK entry", trending)
	}
	if trending[0].Category != "meme" {
		t.Errorf("BONK category = %q, want meme", trending[0].Category)
	}
}

func TestRefreshFallsBackToFixture(t *testing.T) {
	p := &mockProvider{fail: true}
	agg := newTestAggregator(p)

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v, fallback must not surface the failure", err)
	}

	st := agg.State()
	if st.Prediction.Source != fixture.Source {
		t.Errorf("Source = %q, want %q", st.Prediction.Source, fixture.Source)
	}
	if st.LastError == "" {
		t.Error("LastError must record the failure")
	}
	if st.LastError != fallbackMessage {
		t.Errorf("LastError = %q, want %q", st.LastError, fallbackMessage)
	}
	if st.Loading {
		t.Error("Loading must be cleared after fallback")
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	p := &mockProvider{
		samples: risingSamples(24, 160),
		price:   185.43,
		block:   make(chan struct{}),
	}
	agg := newTestAggregator(p)

	first := make(chan error, 1)
	go func() { first <- agg.Refresh(context.Background()) }()

	// Wait for the first refresh to reach the provider.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&p.snapshots) == 0 {
		select {
		case <-deadline:
			t.Fatal("first refresh never reached the provider")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// Second call while in flight is a no-op and returns immediately.
	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("concurrent Refresh() error = %v", err)
	}
	if got := atomic.LoadInt32(&p.snapshots); got != 1 {
		t.Errorf("provider hit %d times, want 1 (single-flight)", got)
	}

	close(p.block)
	if err := <-first; err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
}

func TestRefreshDiscardsAfterCancellation(t *testing.T) {
	p := &mockProvider{
		samples: risingSamples(24, 160),
		price:   185.43,
		block:   make(chan struct{}),
	}
	agg := newTestAggregator(p)
	before := agg.State()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- agg.Refresh(ctx) }()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&p.snapshots) == 0 {
		select {
		case <-deadline:
			t.Fatal("refresh never reached the provider")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	close(p.block)
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Refresh() error = %v, want context.Canceled", err)
	}

	after := agg.State()
	if after.Prediction.Source != before.Prediction.Source {
		t.Errorf("cancelled refresh must not install results: source changed %q -> %q",
			before.Prediction.Source, after.Prediction.Source)
	}
}

func TestOnUpdateFiresOnInstall(t *testing.T) {
	p := &mockProvider{samples: risingSamples(24, 160), price: 185.43}
	agg := newTestAggregator(p)

	var calls int32
	agg.SetOnUpdate(func(models.PredictionState) { atomic.AddInt32(&calls, 1) })

	if err := agg.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("onUpdate fired %d times, want 1", got)
	}
}
