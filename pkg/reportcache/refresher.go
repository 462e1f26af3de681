package reportcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goliatone/go-seedgen/pkg/report"
)

// Cache keys holding the serialized reports.
const (
	KeyHighestSpenders = "reports:highest_spenders"
	KeyBestSellers     = "reports:best_sellers"
)

// Defaults applied to zero Refresher fields.
const (
	DefaultInitialDelay = 2 * time.Second
	DefaultInterval     = 60 * time.Second
	DefaultLimit        = 10
)

// ErrMiss is returned by Cache.Get for absent keys.
var ErrMiss = errors.New("reportcache: cache miss")

// Source computes reports.
type Source interface {
	HighestSpenders(ctx context.Context, limit int) ([]report.Spender, error)
	BestSellers(ctx context.Context, limit int) ([]report.Seller, error)
}

// Cache stores serialized reports.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Refresher periodically recomputes the reports from Source into Cache.
type Refresher struct {
	Source       Source
	Cache        Cache
	InitialDelay time.Duration
	Interval     time.Duration
	Limit        int
	Logger       *log.Logger
}

// initialDelay is InitialDelay, DefaultInitialDelay when zero, and no delay
// when negative.
func (r *Refresher) initialDelay() time.Duration {
	switch {
	case r.InitialDelay == 0:
		return DefaultInitialDelay
	case r.InitialDelay < 0:
		return 0
	default:
		return r.InitialDelay
	}
}

func (r *Refresher) interval() time.Duration {
	if r.Interval <= 0 {
		return DefaultInterval
	}
	return r.Interval
}

func (r *Refresher) limit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// TTL is the lifetime of cached entries: two intervals, so a single missed
// refresh never empties the cache.
func (r *Refresher) TTL() time.Duration {
	return 2 * r.interval()
}

// RefreshOnce recomputes and stores both reports. Both are attempted even
// when the first fails; the errors are joined.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	if r.Source == nil || r.Cache == nil {
		return errors.New("reportcache: source and cache are required")
	}

	var errs []error
	spenders, err := r.Source.HighestSpenders(ctx, r.limit())
	if err == nil {
		err = r.store(ctx, KeyHighestSpenders, spenders)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("reportcache: highest spenders: %w", err))
	}

	sellers, err := r.Source.BestSellers(ctx, r.limit())
	if err == nil {
		err = r.store(ctx, KeyBestSellers, sellers)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("reportcache: best sellers: %w", err))
	}
	return errors.Join(errs...)
}

func (r *Refresher) store(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Cache.Set(ctx, key, payload, r.TTL())
}

// Run refreshes after the initial delay and then every Interval until ctx is
// done. Refresh failures are logged and retried on the next tick. Run
// returns ctx.Err().
func (r *Refresher) Run(ctx context.Context) error {
	timer := time.NewTimer(r.initialDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		start := time.Now()
		if err := r.RefreshOnce(ctx); err != nil {
			r.logf("refresh failed: %v", err)
		} else {
			r.logf("reports refreshed in %s", time.Since(start).Round(time.Millisecond))
		}
		timer.Reset(r.interval())
	}
}

func (r *Refresher) logf(format string, args ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.Printf(format, args...)
}
