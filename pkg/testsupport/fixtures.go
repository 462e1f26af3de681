package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-seedgen/pkg/config"
)

// Epoch is the fixed reference time used by fixtures.
var Epoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SmallConfig returns a valid configuration for a tiny, reproducible run:
// fixed seed, fixed reference time, and output directories under a temp dir.
func SmallConfig(t *testing.T, users, products, orders, chunkSize int) config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Users = users
	cfg.Products = products
	cfg.Orders = orders
	cfg.ChunkSize = chunkSize
	cfg.Seed = 7
	cfg.Now = Epoch

	dir := t.TempDir()
	cfg.Output.SQLDir = filepath.Join(dir, "sql")
	cfg.Output.RedisDir = filepath.Join(dir, "redis")
	return cfg
}
