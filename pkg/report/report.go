package report

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-seedgen/pkg/model"
)

// Spender is a user ranked by the sum of their order totals.
type Spender struct {
	UserID     int             `json:"user_id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// Seller is a product ranked by units sold.
type Seller struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// HighestSpenders ranks users by total spent, highest first; ties go to the
// lower user id. Users without orders are omitted. A non-positive limit
// returns every ranked user.
func HighestSpenders(ds *model.Dataset, limit int) []Spender {
	if ds == nil {
		return nil
	}

	totals := make(map[int]decimal.Decimal)
	for _, order := range ds.Orders {
		totals[order.UserID] = totals[order.UserID].Add(order.TotalAmount)
	}

	out := make([]Spender, 0, len(totals))
	for userID, total := range totals {
		user, _ := ds.User(userID)
		out = append(out, Spender{
			UserID:     userID,
			Name:       user.Name,
			Email:      user.Email,
			TotalSpent: model.Money(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpent.Cmp(out[j].TotalSpent); c != 0 {
			return c > 0
		}
		return out[i].UserID < out[j].UserID
	})
	return truncate(out, limit)
}

// BestSellers ranks products by units sold, highest first; ties go to the
// lower product id. Revenue is computed from the snapshot unit prices.
// Products never ordered are omitted. A non-positive limit returns every
// ranked product.
func BestSellers(ds *model.Dataset, limit int) []Seller {
	if ds == nil {
		return nil
	}

	byProduct := make(map[int]*Seller)
	for _, order := range ds.Orders {
		for _, item := range order.Items {
			s, ok := byProduct[item.ProductID]
			if !ok {
				product, _ := ds.Product(item.ProductID)
				s = &Seller{ProductID: item.ProductID, Name: product.Name, SKU: product.SKU}
				byProduct[item.ProductID] = s
			}
			s.UnitsSold += item.Quantity
			s.Revenue = s.Revenue.Add(item.Subtotal())
		}
	}

	out := make([]Seller, 0, len(byProduct))
	for _, s := range byProduct {
		s.Revenue = model.Money(s.Revenue)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	return truncate(out, limit)
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// DatasetSource serves reports computed from an in-memory dataset.
type DatasetSource struct {
	Dataset *model.Dataset
}

// HighestSpenders implements the report cache source contract.
func (s DatasetSource) HighestSpenders(ctx context.Context, limit int) ([]Spender, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return HighestSpenders(s.Dataset, limit), nil
}

// BestSellers implements the report cache source contract.
func (s DatasetSource) BestSellers(ctx context.Context, limit int) ([]Seller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return BestSellers(s.Dataset, limit), nil
}
