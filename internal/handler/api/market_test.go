package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/fixture"
	"SolPulse/internal/usecase"
	xlogger "SolPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "coingecko" }

func (stubProvider) Snapshot(ctx context.Context, assetID string) (models.AssetSnapshot, error) {
	return models.AssetSnapshot{
		ID: assetID, Symbol: "sol", Name: "Solana",
		Market: models.MarketData{CurrentPrice: 185.43, Volume24h: 2.4e9, LastTradeAt: time.Now().UTC()},
	}, nil
}

func (stubProvider) MarketChart(ctx context.Context, assetID string, days int) ([]models.Sample, error) {
	out := make([]models.Sample, 24)
	ts := time.Now().UTC().Add(-24 * time.Hour)
	for i := range out {
		out[i] = models.Sample{Timestamp: ts.Add(time.Duration(i) * time.Hour), Price: 160 + float64(i), Volume: 1e9}
	}
	return out, nil
}

func (stubProvider) Markets(ctx context.Context, ids []string) ([]models.TokenMarket, error) {
	return nil, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordRefresh(string, string)              {}
func (stubMetrics) RecordError(string)                        {}
func (stubMetrics) RecordLastPrice(string, float64)           {}
func (stubMetrics) RecordProbability(string, string, float64) {}
func (stubMetrics) RecordLatency(string, float64)             {}

func newTestServer(t *testing.T) (*echo.Echo, *usecase.Refresher) {
	t.Helper()
	agg := usecase.NewAggregator(stubProvider{}, nil, stubMetrics{}, xlogger.Nop(), usecase.AggregatorConfig{
		AssetID:      "solana",
		LookbackDays: 7,
	})
	refresher := usecase.NewRefresher(agg, time.Hour, xlogger.Nop())
	t.Cleanup(refresher.Stop)

	e := echo.New()
	NewMarketHandler(xlogger.Nop(), agg, refresher).RegisterRoutes(e)
	return e, refresher
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Status int                    `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestPredictionServesFixtureByDefault(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/prediction", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeData(t, rec)
	pred, ok := data["prediction"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing prediction in %v", data)
	}
	if pred["source"] != fixture.Source {
		t.Errorf("source = %v, want %q", pred["source"], fixture.Source)
	}
	if data["is_live"] != false {
		t.Errorf("is_live = %v, want false", data["is_live"])
	}
}

func TestHorizonDefaultsTo60(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/prediction/horizon", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if got := data["horizon_minutes"]; got != float64(60) {
		t.Errorf("horizon_minutes = %v, want 60", got)
	}
}

func TestHorizonRejectsUnknownValue(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/prediction/horizon?minutes=30", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400\n%s", rec.Code, rec.Body.String())
	}
}

func TestRefreshInstallsLiveData(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodPost, "/api/refresh", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	pred := data["prediction"].(map[string]interface{})
	if pred["source"] != "coingecko" {
		t.Errorf("source = %v, want coingecko", pred["source"])
	}
	if pred["version"] != "v2" {
		t.Errorf("version = %v, want v2", pred["version"])
	}
}

func TestLiveToggle(t *testing.T) {
	e, refresher := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/live", `{"enabled": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if data := decodeData(t, rec); data["is_live"] != true {
		t.Errorf("is_live = %v, want true", data["is_live"])
	}
	if !refresher.IsLive() {
		t.Error("refresher must be live after POST /api/live")
	}

	rec = doRequest(e, http.MethodPost, "/api/live", `{"enabled": false}`)
	if data := decodeData(t, rec); data["is_live"] != false {
		t.Errorf("is_live = %v, want false", data["is_live"])
	}
}

func TestSentimentEndpoint(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/sentiment", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeData(t, rec)
	if _, ok := data["sentiment"]; !ok {
		t.Errorf("missing sentiment in %v", data)
	}
	if _, ok := data["risk"]; !ok {
		t.Errorf("missing risk in %v", data)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	e, _ := newTestServer(t)
	rec := doRequest(e, http.MethodGet, "/api/overview", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := decodeData(t, rec)
	if data["symbol"] != "SOL/USDC" {
		t.Errorf("symbol = %v, want SOL/USDC", data["symbol"])
	}
	levels, ok := data["key_levels"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing key_levels in %v", data)
	}
	if sup := levels["support"].([]interface{}); len(sup) != 2 {
		t.Errorf("support levels = %v, want 2", sup)
	}
}
