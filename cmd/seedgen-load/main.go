package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/goliatone/go-seedgen/pkg/contract"
	"github.com/goliatone/go-seedgen/pkg/loadgen"
)

func main() {
	baseURL := flag.String("base-url", getenv("STORE_BASE_URL", "http://localhost:5000"), "store service base URL")
	total := flag.Int("total", 300, "total number of requests")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	users := flag.Int("users", 1000, "users in the loaded dataset")
	products := flag.Int("products", 10000, "products in the loaded dataset")
	seed := flag.Int64("seed", 0, "payload seed; 0 derives one from the clock")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	validate := flag.Bool("validate", false, "validate payloads against the service contract")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address while running")
	flag.Parse()

	if *total <= 0 {
		log.Fatalf("total must be > 0")
	}
	if *concurrency <= 0 {
		log.Fatalf("concurrency must be > 0")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clientOptions := []loadgen.ClientOption{loadgen.WithTimeout(*timeout)}
	if *validate {
		doc, err := contract.Load(ctx)
		if err != nil {
			log.Fatalf("Failed to load contract: %v", err)
		}
		clientOptions = append(clientOptions, loadgen.WithContract(doc))
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	metrics := loadgen.NewMetrics()
	runner := &loadgen.Runner{
		Client:      loadgen.NewClient(*baseURL, clientOptions...),
		Payloads:    loadgen.NewPayloadBuilder(rand.New(rand.NewSource(*seed)), *users, *products),
		Concurrency: *concurrency,
		Total:       *total,
		Weights:     loadgen.DefaultWeights(),
		Metrics:     metrics,
		Logger:      log.New(os.Stderr, "", log.LstdFlags),
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	summary, err := runner.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Load run failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
