package loadgen

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"
)

// Endpoint identifies one task of the request mix.
type Endpoint int

const (
	EndpointCreateOrder Endpoint = iota
	EndpointHighestSpenders
	EndpointBestSellers
)

// Endpoints lists every endpoint in mix order.
var Endpoints = []Endpoint{EndpointCreateOrder, EndpointHighestSpenders, EndpointBestSellers}

func (e Endpoint) String() string {
	switch e {
	case EndpointCreateOrder:
		return "create_order"
	case EndpointHighestSpenders:
		return "highest_spenders"
	case EndpointBestSellers:
		return "best_sellers"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// Weights sets the relative frequency of each endpoint. Endpoints with a
// weight of zero or less are never called.
type Weights map[Endpoint]int

// DefaultWeights is the 1:1:1 mix.
func DefaultWeights() Weights {
	return Weights{
		EndpointCreateOrder:     1,
		EndpointHighestSpenders: 1,
		EndpointBestSellers:     1,
	}
}

// Runner sends Total requests over Concurrency workers.
type Runner struct {
	Client      *Client
	Payloads    *PayloadBuilder
	Concurrency int
	Total       int
	Weights     Weights
	Metrics     *Metrics
	Logger      *log.Logger
}

// EndpointSummary aggregates the requests sent to one endpoint. Latencies
// are in milliseconds and cover successful requests only.
type EndpointSummary struct {
	Endpoint   string  `json:"endpoint"`
	Requests   int     `json:"requests"`
	Failures   int     `json:"failures"`
	AvgMs      float64 `json:"avg_latency_ms"`
	P50Ms      float64 `json:"p50_latency_ms"`
	P90Ms      float64 `json:"p90_latency_ms"`
	P95Ms      float64 `json:"p95_latency_ms"`
	P99Ms      float64 `json:"p99_latency_ms"`
	FirstError string  `json:"first_error,omitempty"`
}

// Summary is the result of a run.
type Summary struct {
	Total           int               `json:"total_requests"`
	Successful      int               `json:"successful_requests"`
	Failed          int               `json:"error_requests"`
	Concurrency     int               `json:"concurrency"`
	DurationSeconds float64           `json:"duration_seconds"`
	ThroughputRPS   float64           `json:"throughput_rps"`
	P50Ms           float64           `json:"p50_latency_ms"`
	P90Ms           float64           `json:"p90_latency_ms"`
	P95Ms           float64           `json:"p95_latency_ms"`
	P99Ms           float64           `json:"p99_latency_ms"`
	Endpoints       []EndpointSummary `json:"endpoints"`
}

// Run sends the configured requests and returns the summary. Cancelling ctx
// stops handing out new requests; the summary then covers what was sent and
// ctx.Err() is returned alongside it.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.Client == nil {
		return Summary{}, errors.New("loadgen: runner requires a client")
	}
	if r.Total <= 0 {
		return Summary{}, errors.New("loadgen: total must be > 0")
	}
	if r.Concurrency <= 0 {
		return Summary{}, errors.New("loadgen: concurrency must be > 0")
	}
	schedule, err := r.schedule()
	if err != nil {
		return Summary{}, err
	}
	if r.Payloads == nil {
		r.Payloads = NewPayloadBuilder(nil, 1, 1)
	}
	if r.Metrics == nil {
		r.Metrics = NewMetrics()
	}

	stats := newStats()
	tasks := make(chan Endpoint)
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < r.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for endpoint := range tasks {
				latency, err := r.call(ctx, endpoint)
				r.Metrics.observe(endpoint, latency, err)
				stats.record(endpoint, latency, err)
			}
		}()
	}

	sent := 0
dispatch:
	for ; sent < r.Total; sent++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case tasks <- schedule[sent%len(schedule)]:
		}
	}
	close(tasks)
	wg.Wait()

	summary := stats.summary(time.Since(start))
	summary.Concurrency = r.Concurrency
	r.logf("loadgen: %d/%d requests succeeded in %.2fs (p95 %.0fms)",
		summary.Successful, summary.Total, summary.DurationSeconds, summary.P95Ms)
	if sent < r.Total {
		return summary, ctx.Err()
	}
	return summary, nil
}

func (r *Runner) call(ctx context.Context, endpoint Endpoint) (time.Duration, error) {
	start := time.Now()
	var err error
	switch endpoint {
	case EndpointCreateOrder:
		_, err = r.Client.CreateOrder(ctx, r.Payloads.Next())
	case EndpointHighestSpenders:
		_, err = r.Client.HighestSpenders(ctx)
	case EndpointBestSellers:
		_, err = r.Client.BestSellers(ctx)
	default:
		err = fmt.Errorf("loadgen: unknown endpoint %s", endpoint)
	}
	return time.Since(start), err
}

// schedule expands the weights into a repeating task sequence.
func (r *Runner) schedule() ([]Endpoint, error) {
	weights := r.Weights
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	var schedule []Endpoint
	for _, endpoint := range Endpoints {
		for i := 0; i < weights[endpoint]; i++ {
			schedule = append(schedule, endpoint)
		}
	}
	if len(schedule) == 0 {
		return nil, errors.New("loadgen: every endpoint weight is zero")
	}
	return schedule, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

type endpointStats struct {
	requests    int
	failures    int
	latenciesMs []float64
	firstError  string
}

type stats struct {
	mu        sync.Mutex
	endpoints map[Endpoint]*endpointStats
}

func newStats() *stats {
	return &stats{endpoints: make(map[Endpoint]*endpointStats)}
}

func (s *stats) record(endpoint Endpoint, latency time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	es, ok := s.endpoints[endpoint]
	if !ok {
		es = &endpointStats{}
		s.endpoints[endpoint] = es
	}
	es.requests++
	if err != nil {
		es.failures++
		if es.firstError == "" {
			es.firstError = err.Error()
		}
		return
	}
	es.latenciesMs = append(es.latenciesMs, float64(latency)/float64(time.Millisecond))
}

func (s *stats) summary(duration time.Duration) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Summary
	var all []float64
	for _, endpoint := range Endpoints {
		es, ok := s.endpoints[endpoint]
		if !ok {
			continue
		}
		p50, p90, p95, p99 := calcPercentiles(es.latenciesMs)
		out.Endpoints = append(out.Endpoints, EndpointSummary{
			Endpoint:   endpoint.String(),
			Requests:   es.requests,
			Failures:   es.failures,
			AvgMs:      mean(es.latenciesMs),
			P50Ms:      p50,
			P90Ms:      p90,
			P95Ms:      p95,
			P99Ms:      p99,
			FirstError: es.firstError,
		})
		out.Total += es.requests
		out.Failed += es.failures
		all = append(all, es.latenciesMs...)
	}
	out.Successful = out.Total - out.Failed
	out.P50Ms, out.P90Ms, out.P95Ms, out.P99Ms = calcPercentiles(all)
	out.DurationSeconds = duration.Seconds()
	if out.DurationSeconds > 0 {
		out.ThroughputRPS = float64(out.Successful) / out.DurationSeconds
	}
	return out
}

func calcPercentiles(values []float64) (float64, float64, float64, float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return percentile(sorted, 0.50), percentile(sorted, 0.90), percentile(sorted, 0.95), percentile(sorted, 0.99)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// percentile uses the nearest-rank method on sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
