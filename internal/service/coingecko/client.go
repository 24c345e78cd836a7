package coingecko

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"SolPulse/internal/domain/models"
	domsvc "SolPulse/internal/domain/service"
	"SolPulse/internal/service/ratelimit"
	"SolPulse/pkg/cache"
	xhttp "SolPulse/pkg/http"
	"SolPulse/pkg/util"
)

const (
	providerName  = "coingecko"
	retryAttempts = 3
)

// Client fetches market data from the CoinGecko REST API. Transient failures
// (HTTP 429 and transport errors) are retried up to retryAttempts with a
// linear backoff of attempt x backoffUnit; any other non-2xx fails fast.
type Client struct {
	baseURL     string
	apiKey      string
	vsCurrency  string
	http        *xhttp.Client
	limiter     *ratelimit.Limiter
	limCapacity float64
	limRefill   float64
	cache       cache.Cache
	cacheTTL    time.Duration
	backoffUnit time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithAPIKey sets the PRO API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithVsCurrency sets the quote currency (default usd).
func WithVsCurrency(cur string) Option {
	return func(c *Client) { c.vsCurrency = cur }
}

// WithHTTPTimeout sets the per-request timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

// WithCache enables a read-through response cache; useful against the
// free-tier rate limit.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

// WithRateLimit gates outgoing requests through a token bucket.
func WithRateLimit(capacity, refillPerSec float64) Option {
	return func(c *Client) {
		c.limiter = ratelimit.New()
		c.limCapacity = capacity
		c.limRefill = refillPerSec
	}
}

// WithBackoffUnit overrides the backoff base (default 1s). Tests shrink it.
func WithBackoffUnit(d time.Duration) Option {
	return func(c *Client) { c.backoffUnit = d }
}

// New creates a CoinGecko market data provider.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		vsCurrency:  "usd",
		http:        xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		backoffUnit: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the provider for provenance tagging.
func (c *Client) Name() string { return providerName }

type marketRow struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	CurrentPrice             float64 `json:"current_price"`
	MarketCap                float64 `json:"market_cap"`
	TotalVolume              float64 `json:"total_volume"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	LastUpdated              string  `json:"last_updated"`
}

type chartResponse struct {
	Prices       [][]float64 `json:"prices"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// Snapshot returns the current market row for one asset.
func (c *Client) Snapshot(ctx context.Context, assetID string) (models.AssetSnapshot, error) {
	var rows []marketRow
	err := c.getJSON(ctx, "/coins/markets", map[string]string{
		"vs_currency": c.vsCurrency,
		"ids":         assetID,
		"order":       "market_cap_desc",
		"per_page":    "1",
		"page":        "1",
	}, &rows)
	if err != nil {
		return models.AssetSnapshot{}, err
	}
	if len(rows) == 0 {
		return models.AssetSnapshot{}, &ProviderError{
			Provider: providerName,
			Endpoint: "/coins/markets",
			Attempts: 1,
			Err:      fmt.Errorf("no market data for asset %q", assetID),
		}
	}

	r := rows[0]
	snap := models.AssetSnapshot{
		ID:     r.ID,
		Symbol: r.Symbol,
		Name:   r.Name,
		Market: models.MarketData{
			CurrentPrice:   r.CurrentPrice,
			PriceChange24h: r.PriceChangePercentage24h,
			Volume24h:      r.TotalVolume,
			LastTradeAt:    util.ParseTimeDefault(r.LastUpdated, time.Now().UTC()),
		},
	}
	if r.MarketCap > 0 {
		mc := r.MarketCap
		snap.Market.MarketCap = &mc
	}
	return snap, nil
}

// MarketChart returns the historical price/volume series for the lookback
// window, ascending by timestamp. Prices and volumes arrive as parallel
// arrays; they are zipped to the shorter length.
func (c *Client) MarketChart(ctx context.Context, assetID string, days int) ([]models.Sample, error) {
	var chart chartResponse
	err := c.getJSON(ctx, "/coins/"+assetID+"/market_chart", map[string]string{
		"vs_currency": c.vsCurrency,
		"days":        strconv.Itoa(days),
	}, &chart)
	if err != nil {
		return nil, err
	}

	n := len(chart.Prices)
	if len(chart.TotalVolumes) < n {
		n = len(chart.TotalVolumes)
	}
	samples := make([]models.Sample, 0, n)
	for i := 0; i < n; i++ {
		p, v := chart.Prices[i], chart.TotalVolumes[i]
		if len(p) < 2 || len(v) < 2 {
			continue
		}
		samples = append(samples, models.Sample{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Price:     p[1],
			Volume:    v[1],
		})
	}
	return samples, nil
}

// Markets returns market rows for a set of related tokens.
func (c *Client) Markets(ctx context.Context, ids []string) ([]models.TokenMarket, error) {
	var rows []marketRow
	err := c.getJSON(ctx, "/coins/markets", map[string]string{
		"vs_currency": c.vsCurrency,
		"ids":         strings.Join(ids, ","),
		"order":       "market_cap_desc",
		"per_page":    "50",
		"page":        "1",
	}, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]models.TokenMarket, 0, len(rows))
	for _, r := range rows {
		tm := models.TokenMarket{
			ID:             r.ID,
			Symbol:         strings.ToUpper(r.Symbol),
			Name:           r.Name,
			Price:          r.CurrentPrice,
			PriceChange24h: r.PriceChangePercentage24h,
			Volume24h:      r.TotalVolume,
			LastUpdated:    util.ParseTimeDefault(r.LastUpdated, time.Now().UTC()),
		}
		if r.MarketCap > 0 {
			mc := r.MarketCap
			tm.MarketCap = &mc
		}
		out = append(out, tm)
	}
	return out, nil
}

func (c *Client) headers() map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if c.apiKey != "" {
		h["x-cg-pro-api-key"] = c.apiKey
	}
	return h
}

// getJSON performs a GET with the retry policy, consulting the response
// cache first when one is configured.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, dest interface{}) error {
	key := cacheKey(path, query)
	if c.cache != nil {
		if b, err := c.cache.Get(ctx, key); err == nil {
			return xhttp.DecodeBody(bytes.NewReader(b), dest)
		}
	}

	var (
		lastErr    error
		lastStatus int
	)
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if c.limiter != nil && !c.limiter.Allow(providerName, c.limCapacity, c.limRefill) {
			// Local budget exhausted; treat as transient.
			lastErr = fmt.Errorf("local rate limit exceeded")
			if err := c.backoff(ctx, attempt); err != nil {
				return err
			}
			continue
		}

		resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
			Method:      xhttp.MethodGet,
			URL:         c.baseURL + path,
			Headers:     c.headers(),
			QueryParams: query,
		})
		if err != nil {
			lastErr = err
			if berr := c.backoff(ctx, attempt); berr != nil {
				return berr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				return fmt.Errorf("read body: %w", readErr)
			}
			if c.cache != nil {
				_ = c.cache.Set(ctx, key, body, c.cacheTTL)
			}
			return xhttp.DecodeBody(bytes.NewReader(body), dest)
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited")
			lastStatus = http.StatusTooManyRequests
			if berr := c.backoff(ctx, attempt); berr != nil {
				return berr
			}
		default:
			// Non-transient status: fail without burning retries.
			return &ProviderError{
				Provider: providerName,
				Endpoint: path,
				Status:   resp.StatusCode,
				Attempts: attempt,
				Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body),
			}
		}
	}

	return &ProviderError{
		Provider: providerName,
		Endpoint: path,
		Status:   lastStatus,
		Attempts: retryAttempts,
		Err:      lastErr,
	}
}

// backoff sleeps attempt x backoffUnit, honoring context cancellation. The
// final attempt skips the sleep; the caller returns the terminal error.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	if attempt >= retryAttempts {
		return nil
	}
	select {
	case <-time.After(time.Duration(attempt) * c.backoffUnit):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cacheKey(path string, query map[string]string) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("cg:")
	sb.WriteString(path)
	for _, k := range keys {
		sb.WriteByte('&')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(query[k])
	}
	return sb.String()
}

var _ domsvc.MarketDataProvider = (*Client)(nil)
