package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goliatone/go-seedgen"
	"github.com/goliatone/go-seedgen/pkg/artifact"
	"github.com/goliatone/go-seedgen/pkg/config"
	"github.com/goliatone/go-seedgen/pkg/orchestrator"
	"github.com/goliatone/go-seedgen/pkg/report"
	"github.com/goliatone/go-seedgen/pkg/reportcache"
)

func main() {
	configPath := flag.String("config", "", "YAML or JSON config file used to generate the dataset")
	envFiles := flag.String("env", "", "comma-separated .env files (defaults to ./.env when present)")
	redisAddr := flag.String("redis-addr", "", "Redis address (overrides config)")
	interval := flag.Duration("interval", 0, "refresh interval (overrides config)")
	limit := flag.Int("limit", 0, "rows per report (overrides config)")
	once := flag.Bool("once", false, "refresh a single time and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	var err error
	if *configPath != "" {
		if cfg, err = config.LoadFile(cfg, *configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if cfg, err = config.ApplyEnv(cfg, splitList(*envFiles)...); err != nil {
		log.Fatalf("Failed to apply environment: %v", err)
	}
	if *redisAddr != "" {
		cfg.Redis.Addr = *redisAddr
	}
	if *interval > 0 {
		cfg.Reports.Interval = *interval
	}
	if *limit > 0 {
		cfg.Reports.Limit = *limit
	}
	if cfg.Seed == 0 {
		log.Printf("Seed is 0: the regenerated dataset will not match previously written scripts")
	}

	result, err := seedgen.Generate(ctx, cfg,
		orchestrator.WithRelationalSink(artifact.NewMemorySink("sql")),
		orchestrator.WithKeyValueSink(artifact.NewMemorySink("redis")),
	)
	if err != nil {
		log.Fatalf("Failed to regenerate dataset: %v", err)
	}
	log.Printf("Regenerated %d orders from seed %d", result.Stats.Orders, result.Seed)

	cache, client, err := reportcache.Connect(ctx, reportcache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer client.Close()

	refresher := &reportcache.Refresher{
		Source:       report.DatasetSource{Dataset: result.Dataset},
		Cache:        cache,
		InitialDelay: cfg.Reports.InitialDelay,
		Interval:     cfg.Reports.Interval,
		Limit:        cfg.Reports.Limit,
		Logger:       log.New(os.Stderr, "reportcache: ", log.LstdFlags),
	}

	if *once {
		if err := refresher.RefreshOnce(ctx); err != nil {
			log.Fatalf("Refresh failed: %v", err)
		}
		return
	}
	if err := refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Refresher stopped: %v", err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
