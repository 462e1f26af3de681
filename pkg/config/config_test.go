package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
	if cfg.Users != 1000 || cfg.Products != 10000 || cfg.Orders != 80000 {
		t.Fatalf("unexpected default counts %d/%d/%d", cfg.Users, cfg.Products, cfg.Orders)
	}
	if cfg.ChunkSize != 100000 || cfg.LookbackDays != 730 {
		t.Fatalf("unexpected default chunk size %d / lookback %d", cfg.ChunkSize, cfg.LookbackDays)
	}
	if !cfg.PriceMin.Equal(decimal.NewFromInt(5)) || !cfg.PriceMax.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("unexpected default price range %s..%s", cfg.PriceMin, cfg.PriceMax)
	}
}

func TestValidateCollectsEveryIssue(t *testing.T) {
	cfg := Default()
	cfg.ChunkSize = 0
	cfg.MinItems = 4
	cfg.MaxItems = 2
	cfg.Users = 0
	cfg.PriceMin = decimal.NewFromInt(10)
	cfg.PriceMax = decimal.NewFromInt(1)
	cfg.Adjectives = nil
	cfg.Output.SQLDir = ""

	err := Validate(cfg)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	fields := map[string]bool{}
	for _, issue := range verr.Issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{"chunk_size", "max_items", "users", "price_max", "adjectives", "output.sql_dir"} {
		if !fields[want] {
			t.Fatalf("expected issue for %q, got %v", want, verr.Issues)
		}
	}
}

func TestValidateAllowsEmptyPopulationsWithoutOrders(t *testing.T) {
	cfg := Default()
	cfg.Users = 0
	cfg.Products = 0
	cfg.Orders = 0
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateRejectsSharedOutputDir(t *testing.T) {
	cfg := Default()
	cfg.Output.RedisDir = cfg.Output.SQLDir
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "output.redis_dir") {
		t.Fatalf("expected redis_dir issue, got %v", err)
	}
}

func TestNormalizeSanitizesVocabulary(t *testing.T) {
	cfg := Default()
	cfg.Adjectives = []string{"  Shiny ", "<b>Bold</b>", "<script>x</script>", "Kid's", "   "}

	got := cfg.Normalize()
	want := []string{"Shiny", "Bold", "Kid's"}
	if diff := cmp.Diff(want, got.Adjectives); diff != "" {
		t.Fatalf("adjectives mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Adjectives) != 5 {
		t.Fatalf("expected Normalize to leave the receiver untouched")
	}
}

func TestParseYAMLOverlaysDefaults(t *testing.T) {
	doc := `
users: 3
products: 2
orders: 5
chunk_size: 2
price_min: 1.50
seed: 42
now: 2024-05-01T10:00:00Z
output:
  sql_dir: out/sql
reports:
  interval: 30s
`
	cfg, err := Parse(Default(), []byte(doc), "seedgen.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Users != 3 || cfg.Products != 2 || cfg.Orders != 5 || cfg.ChunkSize != 2 {
		t.Fatalf("unexpected counts %+v", cfg)
	}
	if cfg.Seed != 42 {
		t.Fatalf("unexpected seed %d", cfg.Seed)
	}
	if !cfg.PriceMin.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("unexpected price_min %s", cfg.PriceMin)
	}
	if !cfg.Now.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected now %s", cfg.Now)
	}
	if cfg.Output.SQLDir != "out/sql" || cfg.Output.RedisDir != "redis_output" {
		t.Fatalf("unexpected output %+v", cfg.Output)
	}
	if cfg.Reports.Interval != 30*time.Second {
		t.Fatalf("unexpected interval %s", cfg.Reports.Interval)
	}
	if cfg.MaxItems != 5 {
		t.Fatalf("expected untouched keys to keep defaults, max_items = %d", cfg.MaxItems)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seedgen.json")
	if err := os.WriteFile(path, []byte(`{"orders": 7, "email_domain": "shop.test"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(Default(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Orders != 7 || cfg.EmailDomain != "shop.test" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestParseRejectsEmptyAndInvalid(t *testing.T) {
	if _, err := Parse(Default(), []byte("  "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := Parse(Default(), []byte("users: [oops"), "bad.yaml"); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SEEDGEN_USERS=12\nSEEDGEN_CHUNK_SIZE=4\nSEEDGEN_SQL_DIR=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("SEEDGEN_SQL_DIR", "from-process")
	t.Setenv("SEEDGEN_SEED", "99")
	t.Setenv("SEEDGEN_NOW", "2024-06-01T12:00:00+02:00")
	t.Setenv("SEEDGEN_PRICE_MAX", "150.25")
	t.Setenv("SEEDGEN_CLEAR_KEYSPACE", "true")
	// godotenv writes loaded keys into the process environment.
	for _, key := range []string{"SEEDGEN_USERS", "SEEDGEN_CHUNK_SIZE"} {
		key := key
		_ = os.Unsetenv(key)
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}

	cfg, err := ApplyEnv(Default(), envFile)
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Users != 12 || cfg.ChunkSize != 4 {
		t.Fatalf("expected .env values, got users=%d chunk=%d", cfg.Users, cfg.ChunkSize)
	}
	if cfg.Output.SQLDir != "from-process" {
		t.Fatalf("expected process env to win, got %q", cfg.Output.SQLDir)
	}
	if cfg.Seed != 99 {
		t.Fatalf("unexpected seed %d", cfg.Seed)
	}
	if want := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC); !cfg.Now.Equal(want) || cfg.Now.Location() != time.UTC {
		t.Fatalf("expected now %s in UTC, got %s", want, cfg.Now)
	}
	if !cfg.PriceMax.Equal(decimal.RequireFromString("150.25")) {
		t.Fatalf("unexpected price_max %s", cfg.PriceMax)
	}
	if !cfg.Output.ClearKeyspace {
		t.Fatalf("expected clear keyspace to be enabled")
	}
}

func TestApplyEnvReportsMalformedValues(t *testing.T) {
	t.Setenv("SEEDGEN_ORDERS", "not-a-number")
	t.Setenv("SEEDGEN_MIN_ITEMS", "abc")
	t.Setenv("SEEDGEN_CLEAR_TABLES", "maybe")
	t.Setenv("SEEDGEN_NOW", "yesterday")
	t.Setenv("SEEDGEN_USERS", "5")

	cfg, err := ApplyEnv(Default(), writeEmptyEnv(t))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	var fields []string
	for _, issue := range verr.Issues {
		fields = append(fields, issue.Field)
	}
	want := []string{"SEEDGEN_ORDERS", "SEEDGEN_MIN_ITEMS", "SEEDGEN_NOW", "SEEDGEN_CLEAR_TABLES"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
	if cfg.Users != 5 || cfg.Orders != Default().Orders {
		t.Fatalf("expected well-formed overrides only, got users=%d orders=%d", cfg.Users, cfg.Orders)
	}
}

func TestParseNow(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-06-01T12:00:00Z", want: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{in: " 2024-06-01 ", want: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{in: "06/01/2024", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseNow(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseNow(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if !tc.wantErr && !got.Equal(tc.want) {
			t.Fatalf("ParseNow(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func writeEmptyEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	return path
}

func TestApplyEnvMissingFile(t *testing.T) {
	if _, err := ApplyEnv(Default(), filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for missing env file")
	}
}

func TestOptionsMirrorConfig(t *testing.T) {
	cfg := Default()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	orders := cfg.OrderOptions(now)
	if orders.MinItems != 1 || orders.MaxItems != 5 || orders.QuantityMax != 3 || !orders.Now.Equal(now) {
		t.Fatalf("unexpected order options %+v", orders)
	}
	products := cfg.ProductOptions()
	products.Adjectives[0] = "changed"
	if cfg.Adjectives[0] == "changed" {
		t.Fatalf("expected product options to copy vocabularies")
	}
}
