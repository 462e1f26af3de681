package generate

import (
	"math/rand"
	"time"

	"github.com/goliatone/go-seedgen/pkg/model"
)

// OrderOptions configures Orders. Item and quantity bounds are inclusive.
// Now is the generation instant; created_at values fall within LookbackDays
// days before it.
type OrderOptions struct {
	MinItems     int
	MaxItems     int
	QuantityMin  int
	QuantityMax  int
	LookbackDays int
	Now          time.Time
}

// Orders creates count orders with ids 1..count referencing the given users
// and products. Each order holds between MinItems and MaxItems distinct
// products; when more items are requested than there are products the count
// is clamped to the product population. Unit prices are copied from the
// products and totals are the rounded sum of the line subtotals.
//
// Orders returns nil when users or products is empty, since no order could
// reference them.
func Orders(rng *rand.Rand, count int, users []model.User, products []model.Product, opts OrderOptions) []model.Order {
	if count <= 0 || len(users) == 0 || len(products) == 0 {
		return nil
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.Truncate(time.Second)

	orders := make([]model.Order, 0, count)
	for id := 1; id <= count; id++ {
		user := users[rng.Intn(len(users))]
		k := between(rng, opts.MinItems, opts.MaxItems)
		if k < 1 {
			k = 1
		}

		picks := sampleDistinct(rng, len(products), k)
		items := make([]model.OrderItem, 0, len(picks))
		for _, idx := range picks {
			product := products[idx]
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Quantity:  between(rng, opts.QuantityMin, opts.QuantityMax),
				UnitPrice: product.Price,
			})
		}

		daysAgo := between(rng, 0, opts.LookbackDays)
		orders = append(orders, model.Order{
			ID:          id,
			UserID:      user.ID,
			TotalAmount: model.SumItems(items),
			Items:       items,
			CreatedAt:   now.AddDate(0, 0, -daysAgo),
		})
	}
	return orders
}
