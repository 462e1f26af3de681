package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a synthetic customer account.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Product is a catalogue entry. Stock is an inventory count independent of
// orders: generating orders never decrements it.
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// OrderItem is one line of an order. UnitPrice is a copy of the product price
// taken when the order was generated.
type OrderItem struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns UnitPrice * Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a purchase placed by a user. Items is never empty.
type Order struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Money rounds an amount to two decimal places, the precision used for every
// price and total in a dataset.
func Money(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// SumItems returns the rounded sum of the item subtotals.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return Money(total)
}
