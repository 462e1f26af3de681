package loadgen

import (
	"math/rand"
	"sync"
)

// Order payload shape used by the default builder.
const (
	MaxQuantity      = 4
	ExtraItemsChance = 0.3
)

// PayloadBuilder produces order requests whose user and product ids fall
// inside a dataset of the given size. It is safe for concurrent use.
type PayloadBuilder struct {
	mu          sync.Mutex
	rng         *rand.Rand
	numUsers    int
	numProducts int
}

// NewPayloadBuilder returns a builder drawing from rng. Counts below one are
// treated as one.
func NewPayloadBuilder(rng *rand.Rand, numUsers, numProducts int) *PayloadBuilder {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &PayloadBuilder{
		rng:         rng,
		numUsers:    max(numUsers, 1),
		numProducts: max(numProducts, 1),
	}
}

// Next returns a single-item order. With probability ExtraItemsChance two
// more lines for one extra product are appended with quantities 1 and 2.
func (b *PayloadBuilder) Next() OrderRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	order := OrderRequest{
		UserID: 1 + b.rng.Intn(b.numUsers),
		Items: []OrderLine{{
			ProductID: 1 + b.rng.Intn(b.numProducts),
			Quantity:  1 + b.rng.Intn(MaxQuantity),
		}},
	}
	if b.rng.Float64() < ExtraItemsChance {
		extra := 1 + b.rng.Intn(b.numProducts)
		order.Items = append(order.Items,
			OrderLine{ProductID: extra, Quantity: 1},
			OrderLine{ProductID: extra, Quantity: 2},
		)
	}
	return order
}
