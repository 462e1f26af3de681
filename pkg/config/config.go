package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-seedgen/pkg/generate"
)

// Config is a value object; methods never mutate the receiver.
type Config struct {
	Users    int `json:"users" yaml:"users" validate:"gte=0"`
	Products int `json:"products" yaml:"products" validate:"gte=0"`
	Orders   int `json:"orders" yaml:"orders" validate:"gte=0"`

	MinItems    int `json:"min_items" yaml:"min_items" validate:"gte=1"`
	MaxItems    int `json:"max_items" yaml:"max_items" validate:"gte=1"`
	MinQuantity int `json:"min_quantity" yaml:"min_quantity" validate:"gte=1"`
	MaxQuantity int `json:"max_quantity" yaml:"max_quantity" validate:"gte=1"`

	PriceMin decimal.Decimal `json:"price_min" yaml:"price_min"`
	PriceMax decimal.Decimal `json:"price_max" yaml:"price_max"`
	StockMin int             `json:"stock_min" yaml:"stock_min" validate:"gte=0"`
	StockMax int             `json:"stock_max" yaml:"stock_max" validate:"gte=0"`

	LookbackDays int `json:"lookback_days" yaml:"lookback_days" validate:"gte=0"`
	ChunkSize    int `json:"chunk_size" yaml:"chunk_size" validate:"gte=1"`

	// Seed drives every random draw. Zero derives a seed from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
	// Now anchors created_at timestamps. Zero uses the run clock.
	Now time.Time `json:"now,omitempty" yaml:"now,omitempty"`

	EmailDomain string   `json:"email_domain" yaml:"email_domain" validate:"required,hostname_rfc1123"`
	Adjectives  []string `json:"adjectives" yaml:"adjectives" validate:"min=1,dive,required"`
	Categories  []string `json:"categories" yaml:"categories" validate:"min=1,dive,required"`

	Output  OutputConfig  `json:"output" yaml:"output"`
	Redis   RedisConfig   `json:"redis" yaml:"redis"`
	Reports ReportsConfig `json:"reports" yaml:"reports"`
}

// OutputConfig locates the generated scripts.
type OutputConfig struct {
	SQLDir        string `json:"sql_dir" yaml:"sql_dir" validate:"required"`
	RedisDir      string `json:"redis_dir" yaml:"redis_dir" validate:"required"`
	ClearTables   bool   `json:"clear_tables" yaml:"clear_tables"`
	ClearKeyspace bool   `json:"clear_keyspace" yaml:"clear_keyspace"`
}

// RedisConfig addresses the report cache.
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db" validate:"gte=0"`
}

// ReportsConfig drives the report cache refresher.
type ReportsConfig struct {
	InitialDelay time.Duration `json:"initial_delay" yaml:"initial_delay" validate:"gte=0"`
	Interval     time.Duration `json:"interval" yaml:"interval" validate:"gte=0"`
	Limit        int           `json:"limit" yaml:"limit" validate:"gte=0"`
}

// Default returns the stock settings of the generator.
func Default() Config {
	return Config{
		Users:        1000,
		Products:     10000,
		Orders:       80000,
		MinItems:     1,
		MaxItems:     5,
		MinQuantity:  1,
		MaxQuantity:  3,
		PriceMin:     decimal.NewFromInt(5),
		PriceMax:     decimal.NewFromInt(2000),
		StockMin:     10,
		StockMax:     1000,
		LookbackDays: 730,
		ChunkSize:    100000,
		EmailDomain:  generate.DefaultEmailDomain,
		Adjectives:   append([]string(nil), generate.DefaultAdjectives...),
		Categories:   append([]string(nil), generate.DefaultCategories...),
		Output: OutputConfig{
			SQLDir:      "sql_output",
			RedisDir:    "redis_output",
			ClearTables: true,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Reports: ReportsConfig{
			InitialDelay: 2 * time.Second,
			Interval:     60 * time.Second,
			Limit:        10,
		},
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.Adjectives = append([]string(nil), c.Adjectives...)
	out.Categories = append([]string(nil), c.Categories...)
	return out
}

// UserOptions returns the user generation settings.
func (c Config) UserOptions() generate.UserOptions {
	return generate.UserOptions{EmailDomain: c.EmailDomain}
}

// ProductOptions returns the product generation settings.
func (c Config) ProductOptions() generate.ProductOptions {
	return generate.ProductOptions{
		Adjectives: append([]string(nil), c.Adjectives...),
		Categories: append([]string(nil), c.Categories...),
		PriceMin:   c.PriceMin,
		PriceMax:   c.PriceMax,
		StockMin:   c.StockMin,
		StockMax:   c.StockMax,
	}
}

// OrderOptions returns the order generation settings anchored at now.
func (c Config) OrderOptions(now time.Time) generate.OrderOptions {
	return generate.OrderOptions{
		MinItems:     c.MinItems,
		MaxItems:     c.MaxItems,
		QuantityMin:  c.MinQuantity,
		QuantityMax:  c.MaxQuantity,
		LookbackDays: c.LookbackDays,
		Now:          now,
	}
}
