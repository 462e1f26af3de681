package generate

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-seedgen/pkg/model"
)

// DefaultEmailDomain is used when UserOptions.EmailDomain is empty.
const DefaultEmailDomain = "example.com"

// DefaultAdjectives and DefaultCategories are the product name vocabularies.
var (
	DefaultAdjectives = []string{
		"Premium", "Professional", "Deluxe", "Compact", "Advanced",
		"Smart", "Ultra", "Pro", "Elite", "Standard",
	}
	DefaultCategories = []string{
		"Laptop", "Monitor", "Keyboard", "Mouse", "Headphone",
		"Cable", "Hub", "Stand", "Dock", "Adapter",
	}
)

// UserOptions configures Users.
type UserOptions struct {
	EmailDomain string
}

// ProductOptions configures Products. Price bounds are inclusive; the drawn
// price is rounded to two decimals.
type ProductOptions struct {
	Adjectives []string
	Categories []string
	PriceMin   decimal.Decimal
	PriceMax   decimal.Decimal
	StockMin   int
	StockMax   int
}

// Users creates count users with ids 1..count. Names and emails are derived
// from the id alone.
func Users(count int, opts UserOptions) []model.User {
	domain := opts.EmailDomain
	if domain == "" {
		domain = DefaultEmailDomain
	}
	users := make([]model.User, 0, max(count, 0))
	for id := 1; id <= count; id++ {
		users = append(users, model.User{
			ID:    id,
			Name:  fmt.Sprintf("User %d", id),
			Email: fmt.Sprintf("user%d@%s", id, domain),
		})
	}
	return users
}

// Products creates count products with ids 1..count. Names combine an
// adjective and a category drawn independently, so two products may share a
// name prefix; the id keeps each name distinct.
func Products(rng *rand.Rand, count int, opts ProductOptions) []model.Product {
	adjectives := opts.Adjectives
	if len(adjectives) == 0 {
		adjectives = DefaultAdjectives
	}
	categories := opts.Categories
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	lo := opts.PriceMin.InexactFloat64()
	hi := opts.PriceMax.InexactFloat64()

	products := make([]model.Product, 0, max(count, 0))
	for id := 1; id <= count; id++ {
		adjective := adjectives[rng.Intn(len(adjectives))]
		category := categories[rng.Intn(len(categories))]
		price := decimal.NewFromFloat(lo + rng.Float64()*(hi-lo))

		products = append(products, model.Product{
			ID:    id,
			Name:  fmt.Sprintf("%s %s %d", adjective, category, id),
			SKU:   fmt.Sprintf("SKU%06d", id),
			Price: model.Money(price),
			Stock: between(rng, opts.StockMin, opts.StockMax),
		})
	}
	return products
}
