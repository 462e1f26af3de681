// Package seedgen generates a referentially consistent fake commerce dataset
// and writes it as both relational bulk-insert scripts and key-value command
// scripts, chunked identically.
package seedgen

import (
	"context"

	"github.com/goliatone/go-seedgen/pkg/config"
	"github.com/goliatone/go-seedgen/pkg/orchestrator"
)

// Config aliases config.Config so callers can stay on the top-level package.
type Config = config.Config

// Result aliases orchestrator.Result.
type Result = orchestrator.Result

// DefaultConfig returns the stock generation settings.
func DefaultConfig() Config {
	return config.Default()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(cfg Config, options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(cfg, options...)
}

// Generate runs a full generation job for cfg. It is the simplest entry point
// for callers that just want the scripts on disk.
func Generate(ctx context.Context, cfg Config, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(cfg, options...).Run(ctx)
}
