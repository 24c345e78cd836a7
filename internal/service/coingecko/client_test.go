package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"SolPulse/pkg/cache"
)

const marketsPayload = `[{
	"id": "solana",
	"symbol": "sol",
	"name": "Solana",
	"current_price": 185.43,
	"market_cap": 87000000000,
	"total_volume": 2400000000,
	"price_change_percentage_24h": 3.2,
	"last_updated": "2025-11-13T18:18:54Z"
}]`

func TestSnapshotRetriesOn429(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsPayload))
	}))
	defer srv.Close()

	c := New(srv.URL, WithBackoffUnit(time.Millisecond))
	snap, err := c.Snapshot(context.Background(), "solana")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if snap.Market.CurrentPrice != 185.43 {
		t.Errorf("CurrentPrice = %v, want 185.43", snap.Market.CurrentPrice)
	}
	if snap.Market.MarketCap == nil || *snap.Market.MarketCap != 87e9 {
		t.Errorf("MarketCap = %v, want 87e9", snap.Market.MarketCap)
	}
}

func TestSnapshotExhaustsRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, WithBackoffUnit(time.Millisecond))
	_, err := c.Snapshot(context.Background(), "solana")

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if perr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", perr.Attempts)
	}
	if perr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", perr.Status)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestSnapshotFailsFastOnServerError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, WithBackoffUnit(time.Millisecond))
	_, err := c.Snapshot(context.Background(), "solana")

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if perr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", perr.Status)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("500 should not be retried, got %d requests", got)
	}
}

func TestMarketChartZipsSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/solana/market_chart" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("days"); got != "7" {
			t.Errorf("days = %q, want 7", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"prices": [[1700000000000, 180.0], [1700003600000, 182.5], [1700007200000, 185.0]],
			"total_volumes": [[1700000000000, 1e9], [1700003600000, 1.2e9]]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	samples, err := c.MarketChart(context.Background(), "solana", 7)
	if err != nil {
		t.Fatalf("MarketChart() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples (zipped to shorter series), got %d", len(samples))
	}
	if samples[0].Price != 180.0 || samples[0].Volume != 1e9 {
		t.Errorf("sample[0] = %+v", samples[0])
	}
	if want := time.UnixMilli(1700003600000).UTC(); !samples[1].Timestamp.Equal(want) {
		t.Errorf("sample[1].Timestamp = %v, want %v", samples[1].Timestamp, want)
	}
}

func TestGetJSONServesFromCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsPayload))
	}))
	defer srv.Close()

	c := New(srv.URL, WithCache(cache.NewMemoryCache(), time.Minute))
	for i := 0; i < 3; i++ {
		if _, err := c.Snapshot(context.Background(), "solana"); err != nil {
			t.Fatalf("Snapshot() #%d error = %v", i+1, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 upstream request with warm cache, got %d", got)
	}
}

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-cg-pro-api-key"); got != "secret" {
			t.Errorf("x-cg-pro-api-key = %q, want secret", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(marketsPayload))
	}))
	defer srv.Close()

	c := New(srv.URL, WithAPIKey("secret"))
	if _, err := c.Snapshot(context.Background(), "solana"); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
}
