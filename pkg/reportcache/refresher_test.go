package reportcache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-seedgen/pkg/report"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	sets chan string
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
		sets: make(chan string, 64),
	}
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	m.ttls[key] = ttl
	select {
	case m.sets <- key:
	default:
	}
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return data, nil
}

type stubSource struct {
	limits []int
	err    error
}

func (s *stubSource) HighestSpenders(_ context.Context, limit int) ([]report.Spender, error) {
	s.limits = append(s.limits, limit)
	if s.err != nil {
		return nil, s.err
	}
	return []report.Spender{{UserID: 1, Name: "User 1", TotalSpent: decimal.RequireFromString("10.50")}}, nil
}

func (s *stubSource) BestSellers(_ context.Context, limit int) ([]report.Seller, error) {
	return []report.Seller{{ProductID: 3, UnitsSold: 9}}, nil
}

func TestRefreshOnceStoresBothReports(t *testing.T) {
	cache := newMemoryCache()
	src := &stubSource{}
	r := &Refresher{Source: src, Cache: cache, Interval: 30 * time.Second}

	if err := r.RefreshOnce(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	raw, err := cache.Get(context.Background(), KeyHighestSpenders)
	if err != nil {
		t.Fatalf("get spenders: %v", err)
	}
	var spenders []report.Spender
	if err := json.Unmarshal(raw, &spenders); err != nil {
		t.Fatalf("decode spenders: %v", err)
	}
	if len(spenders) != 1 || spenders[0].UserID != 1 || !spenders[0].TotalSpent.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("unexpected spenders %+v", spenders)
	}

	raw, err = cache.Get(context.Background(), KeyBestSellers)
	if err != nil {
		t.Fatalf("get sellers: %v", err)
	}
	if !strings.Contains(string(raw), `"product_id":3`) {
		t.Fatalf("unexpected sellers payload %s", raw)
	}

	if got := cache.ttls[KeyBestSellers]; got != time.Minute {
		t.Fatalf("expected ttl of two intervals, got %s", got)
	}
	if len(src.limits) != 1 || src.limits[0] != DefaultLimit {
		t.Fatalf("expected default limit, got %v", src.limits)
	}
}

func TestRefreshOnceJoinsErrors(t *testing.T) {
	cache := newMemoryCache()
	boom := errors.New("db down")
	r := &Refresher{Source: &stubSource{err: boom}, Cache: cache}

	err := r.RefreshOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if _, err := cache.Get(context.Background(), KeyBestSellers); err != nil {
		t.Fatalf("expected best sellers to be stored despite spenders failure: %v", err)
	}
	if _, err := cache.Get(context.Background(), KeyHighestSpenders); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected spenders miss, got %v", err)
	}
}

func TestRefreshOnceRequiresDependencies(t *testing.T) {
	if err := (&Refresher{}).RefreshOnce(context.Background()); err == nil {
		t.Fatalf("expected error without source and cache")
	}
}

func TestRunRefreshesUntilCancelled(t *testing.T) {
	cache := newMemoryCache()
	r := &Refresher{
		Source:       &stubSource{},
		Cache:        cache,
		InitialDelay: time.Millisecond,
		Interval:     5 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Two sets per refresh; wait for three refreshes.
	for i := 0; i < 6; i++ {
		select {
		case <-cache.sets:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for refresh %d", i/2+1)
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}

func TestRunWaitsForInitialDelay(t *testing.T) {
	cache := newMemoryCache()
	r := &Refresher{Source: &stubSource{}, Cache: cache, InitialDelay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if _, err := cache.Get(context.Background(), KeyHighestSpenders); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected no refresh before the initial delay")
	}
}

func TestInitialDelayDefaults(t *testing.T) {
	cases := []struct {
		delay time.Duration
		want  time.Duration
	}{
		{delay: 0, want: DefaultInitialDelay},
		{delay: -time.Second, want: 0},
		{delay: 5 * time.Second, want: 5 * time.Second},
	}
	for _, tc := range cases {
		r := &Refresher{InitialDelay: tc.delay}
		if got := r.initialDelay(); got != tc.want {
			t.Fatalf("initialDelay(%s) = %s, want %s", tc.delay, got, tc.want)
		}
	}
}

func TestRunWithZeroDelayWaitsForDefault(t *testing.T) {
	cache := newMemoryCache()
	r := &Refresher{Source: &stubSource{}, Cache: cache}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := r.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if _, err := cache.Get(context.Background(), KeyBestSellers); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected zero InitialDelay to wait for the default delay")
	}
}

func TestRunWithNegativeDelayRefreshesImmediately(t *testing.T) {
	cache := newMemoryCache()
	r := &Refresher{Source: &stubSource{}, Cache: cache, InitialDelay: -1, Interval: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-cache.sets:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for the immediate refresh")
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConnectFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, _, err := Connect(ctx, Options{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected ping failure for unreachable server")
	}
}
