package usecase

import (
	"context"
	"sync"
	"time"

	"SolPulse/pkg/logger"
)

// RefreshInterval is how often live mode recomputes the prediction.
const RefreshInterval = 30 * time.Second

// Refresher drives periodic live refreshes. Enabling live mode triggers an
// immediate refresh and then one per interval; disabling cancels the loop,
// waits for it to exit and restores the fixture dataset. The Refresher owns
// its timer and goroutine, so toggling is idempotent and leak-free.
type Refresher struct {
	agg      *Aggregator
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefresher creates a Refresher; the loop starts on SetLive(true).
func NewRefresher(agg *Aggregator, interval time.Duration, log *logger.Logger) *Refresher {
	return &Refresher{agg: agg, interval: interval, log: log}
}

// SetLive toggles live mode. Re-enabling while live (or disabling while not)
// is a no-op.
func (r *Refresher) SetLive(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enabled {
		if r.cancel != nil {
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		r.cancel = cancel
		r.done = make(chan struct{})
		r.agg.MarkLive(true)
		r.log.Info("live mode enabled", logger.Duration("interval", r.interval))
		go r.loop(ctx, r.done)
		return
	}

	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
	r.agg.MarkLive(false)
	r.agg.ResetToFixture()
	r.log.Info("live mode disabled, fixture data restored")
}

// IsLive reports whether the refresh loop is running.
func (r *Refresher) IsLive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Stop shuts the loop down without restoring fixture data; used on app
// shutdown where state no longer matters.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

func (r *Refresher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if err := r.agg.Refresh(ctx); err != nil {
		r.log.Debug("initial refresh aborted", logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.agg.Refresh(ctx); err != nil {
				r.log.Debug("scheduled refresh aborted", logger.Error(err))
			}
		}
	}
}
