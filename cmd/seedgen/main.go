package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/goliatone/go-seedgen"
	"github.com/goliatone/go-seedgen/internal/prompt"
	"github.com/goliatone/go-seedgen/pkg/artifact"
	"github.com/goliatone/go-seedgen/pkg/config"
	"github.com/goliatone/go-seedgen/pkg/orchestrator"
)

func main() {
	configPath := flag.String("config", "", "YAML or JSON config file")
	envFiles := flag.String("env", "", "comma-separated .env files (defaults to ./.env when present)")
	seed := flag.Int64("seed", 0, "random seed; 0 derives one from the clock. Pass -now as well to reproduce a run")
	now := flag.String("now", "", "anchor time for created_at values (RFC 3339 or YYYY-MM-DD); defaults to the current time")
	users := flag.Int("users", 0, "number of users")
	products := flag.Int("products", 0, "number of products")
	orders := flag.Int("orders", 0, "number of orders")
	chunkSize := flag.Int("chunk-size", 0, "orders per output part")
	sqlDir := flag.String("sql-dir", "", "output directory for SQL scripts")
	redisDir := flag.String("redis-dir", "", "output directory for Redis scripts")
	manifestPath := flag.String("manifest", "", "write the run summary as YAML to this file")
	interactive := flag.Bool("interactive", false, "prompt for counts before generating")
	assumeYes := flag.Bool("yes", false, "overwrite existing scripts without asking")
	templateDir := flag.String("templates", "", "directory with header/directive template overrides")
	exportDir := flag.String("export-templates", "", "write the built-in templates to this directory and exit")
	flag.Parse()

	if *exportDir != "" {
		written, err := seedgen.ExportTemplates(*exportDir)
		if err != nil {
			log.Fatalf("Failed to export templates: %v", err)
		}
		for _, name := range written {
			fmt.Printf("wrote %s\n", name)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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

	if *now != "" {
		anchor, err := config.ParseNow(*now)
		if err != nil {
			log.Fatalf("Invalid -now: %v", err)
		}
		cfg.Now = anchor
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "users":
			cfg.Users = *users
		case "products":
			cfg.Products = *products
		case "orders":
			cfg.Orders = *orders
		case "chunk-size":
			cfg.ChunkSize = *chunkSize
		case "sql-dir":
			cfg.Output.SQLDir = *sqlDir
		case "redis-dir":
			cfg.Output.RedisDir = *redisDir
		}
	})

	driver := prompt.NewSurveyDriver()
	if *interactive {
		if cfg, err = prompt.AskCounts(ctx, driver, cfg); err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
	}

	sqlSink := artifact.NewDirSink("sql", cfg.Output.SQLDir)
	redisSink := artifact.NewDirSink("redis", cfg.Output.RedisDir)
	if !*assumeYes {
		for _, sink := range []*artifact.DirSink{sqlSink, redisSink} {
			existing, err := sink.Existing()
			if err != nil {
				log.Fatalf("Failed to inspect %s: %v", sink.Dir(), err)
			}
			ok, err := prompt.ConfirmOverwrite(ctx, driver, sink.Dir(), existing)
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
			if !ok {
				log.Printf("Leaving %s untouched", sink.Dir())
				return
			}
		}
	}

	options := []orchestrator.Option{
		orchestrator.WithRelationalSink(sqlSink),
		orchestrator.WithKeyValueSink(redisSink),
		orchestrator.WithLogger(log.New(os.Stderr, "seedgen: ", log.LstdFlags)),
	}
	if *templateDir != "" {
		options = append(options, orchestrator.WithTemplates(*templateDir))
	}

	result, err := seedgen.Generate(ctx, cfg, options...)
	if err != nil {
		log.Fatalf("Failed to generate dataset: %v", err)
	}

	printManifest(result)

	if *manifestPath != "" {
		if err := writeSummary(*manifestPath, result); err != nil {
			log.Fatalf("Failed to write manifest: %v", err)
		}
		fmt.Printf("Manifest written to %s\n", *manifestPath)
	}
}

func printManifest(result seedgen.Result) {
	fmt.Printf("run %s (seed %d): %d users, %d products, %d orders, %d items\n",
		result.RunID, result.Seed, result.Stats.Users, result.Stats.Products,
		result.Stats.Orders, result.Stats.OrderItems)
	for _, label := range []string{"sql", "redis"} {
		entries := result.Manifest.BySink(label)
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", label)
		for _, entry := range entries {
			fmt.Printf("  %-40s %10.2f KB\n", entry.Name, entry.KB())
		}
	}
	for _, path := range result.Pruned {
		fmt.Printf("removed stale %s\n", path)
	}
	fmt.Printf("\ntotal %.2f KB\n", float64(result.Manifest.TotalBytes())/1024)
	fmt.Printf("reproduce with -seed %d -now %s\n", result.Seed, result.Now.Format(time.RFC3339))
}

func writeSummary(path string, result seedgen.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := result.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
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
