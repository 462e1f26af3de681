package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SEEDGEN_"

// ApplyEnv loads the given .env files (or ./.env when none are named and it
// exists) and overlays SEEDGEN_* variables on c. Variables already set in the
// process environment win over .env entries.
//
// Every malformed value is reported in a *ValidationError; the returned
// config then carries the well-formed overrides only.
func ApplyEnv(c Config, files ...string) (Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("config: load env: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	env := &envReader{}
	out := c.Clone()
	out.Users = env.getEnvAsInt("USERS", out.Users)
	out.Products = env.getEnvAsInt("PRODUCTS", out.Products)
	out.Orders = env.getEnvAsInt("ORDERS", out.Orders)
	out.MinItems = env.getEnvAsInt("MIN_ITEMS", out.MinItems)
	out.MaxItems = env.getEnvAsInt("MAX_ITEMS", out.MaxItems)
	out.MinQuantity = env.getEnvAsInt("MIN_QUANTITY", out.MinQuantity)
	out.MaxQuantity = env.getEnvAsInt("MAX_QUANTITY", out.MaxQuantity)
	out.PriceMin = env.getEnvAsDecimal("PRICE_MIN", out.PriceMin)
	out.PriceMax = env.getEnvAsDecimal("PRICE_MAX", out.PriceMax)
	out.StockMin = env.getEnvAsInt("STOCK_MIN", out.StockMin)
	out.StockMax = env.getEnvAsInt("STOCK_MAX", out.StockMax)
	out.LookbackDays = env.getEnvAsInt("LOOKBACK_DAYS", out.LookbackDays)
	out.ChunkSize = env.getEnvAsInt("CHUNK_SIZE", out.ChunkSize)
	out.Seed = env.getEnvAsInt64("SEED", out.Seed)
	out.Now = env.getEnvAsTime("NOW", out.Now)
	out.EmailDomain = env.getEnv("EMAIL_DOMAIN", out.EmailDomain)
	out.Output.SQLDir = env.getEnv("SQL_DIR", out.Output.SQLDir)
	out.Output.RedisDir = env.getEnv("REDIS_DIR", out.Output.RedisDir)
	out.Output.ClearTables = env.getEnvAsBool("CLEAR_TABLES", out.Output.ClearTables)
	out.Output.ClearKeyspace = env.getEnvAsBool("CLEAR_KEYSPACE", out.Output.ClearKeyspace)
	out.Redis.Addr = env.getEnv("REDIS_ADDR", out.Redis.Addr)
	out.Redis.Password = env.getEnv("REDIS_PASSWORD", out.Redis.Password)
	out.Redis.DB = env.getEnvAsInt("REDIS_DB", out.Redis.DB)
	out.Reports.InitialDelay = env.getEnvAsDuration("REPORTS_INITIAL_DELAY", out.Reports.InitialDelay)
	out.Reports.Interval = env.getEnvAsDuration("REPORTS_INTERVAL", out.Reports.Interval)
	out.Reports.Limit = env.getEnvAsInt("REPORTS_LIMIT", out.Reports.Limit)

	if len(env.issues) > 0 {
		return out, &ValidationError{Issues: env.issues}
	}
	return out, nil
}

// ParseNow parses a reference time given as RFC 3339 or as a plain date
// (2006-01-02, midnight UTC).
func ParseNow(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("config: %q is not an RFC 3339 time or a date", value)
}

// envReader reads SEEDGEN_* variables and records the malformed ones.
type envReader struct {
	issues []Issue
}

func (e *envReader) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	return value, value != ""
}

func (e *envReader) reject(key, value, want string) {
	e.issues = append(e.issues, Issue{
		Field:   EnvPrefix + key,
		Message: fmt.Sprintf("%q is not %s", value, want),
	})
}

func (e *envReader) getEnv(key, defaultValue string) string {
	if value, ok := e.lookup(key); ok {
		return value
	}
	return defaultValue
}

func (e *envReader) getEnvAsInt(key string, defaultValue int) int {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		e.reject(key, value, "an integer")
		return defaultValue
	}
	return intValue
}

func (e *envReader) getEnvAsInt64(key string, defaultValue int64) int64 {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		e.reject(key, value, "an integer")
		return defaultValue
	}
	return intValue
}

func (e *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		e.reject(key, value, "a boolean")
		return defaultValue
	}
	return boolValue
}

func (e *envReader) getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		e.reject(key, value, "a decimal number")
		return defaultValue
	}
	return d
}

func (e *envReader) getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		e.reject(key, value, "a duration")
		return defaultValue
	}
	return d
}

func (e *envReader) getEnvAsTime(key string, defaultValue time.Time) time.Time {
	value, ok := e.lookup(key)
	if !ok {
		return defaultValue
	}
	t, err := ParseNow(value)
	if err != nil {
		e.reject(key, value, "an RFC 3339 time")
		return defaultValue
	}
	return t
}
