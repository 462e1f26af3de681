package record

import (
	"github.com/goliatone/go-seedgen/pkg/model"
)

// ItemsField is the name of the nested line item list on order records.
const ItemsField = "items"

// FromUser maps a user.
func FromUser(u model.User) Record {
	return Record{Kind: Users, ID: u.ID, Fields: []Field{
		{Name: "name", Value: Text(u.Name)},
		{Name: "email", Value: Text(u.Email)},
	}}
}

// FromProduct maps the catalogue attributes of a product.
func FromProduct(p model.Product) Record {
	return Record{Kind: Products, ID: p.ID, Fields: []Field{
		{Name: "name", Value: Text(p.Name)},
		{Name: "sku", Value: Text(p.SKU)},
		{Name: "price", Value: Money(p.Price)},
	}}
}

// FromStock maps the inventory count of a product together with denormalized
// copies of the product attributes.
func FromStock(p model.Product) Record {
	return Record{Kind: Stocks, ID: p.ID, Fields: []Field{
		{Name: "product_name", Value: Text(p.Name), Denormalized: true},
		{Name: "product_sku", Value: Text(p.SKU), Denormalized: true},
		{Name: "product_unit_price", Value: Money(p.Price), Denormalized: true},
		{Name: "quantity", Value: Int(p.Stock)},
	}}
}

// FromOrder maps an order with its line items nested under ItemsField.
func FromOrder(o model.Order) Record {
	items := make([]Record, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, Record{Kind: OrderItems, Fields: []Field{
			{Name: "product_id", Value: Int(item.ProductID)},
			{Name: "quantity", Value: Int(item.Quantity)},
			{Name: "unit_price", Value: Money(item.UnitPrice)},
		}})
	}
	return Record{Kind: Orders, ID: o.ID, Fields: []Field{
		{Name: "user_id", Value: Int(o.UserID)},
		{Name: "total_amount", Value: Money(o.TotalAmount)},
		{Name: "created_at", Value: Time(o.CreatedAt)},
		{Name: ItemsField, Value: List(items...)},
	}}
}

// FromUsers maps a user slice.
func FromUsers(users []model.User) []Record {
	out := make([]Record, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}

// FromProducts maps a product slice.
func FromProducts(products []model.Product) []Record {
	out := make([]Record, 0, len(products))
	for _, p := range products {
		out = append(out, FromProduct(p))
	}
	return out
}

// FromStocks maps the stock side of a product slice.
func FromStocks(products []model.Product) []Record {
	out := make([]Record, 0, len(products))
	for _, p := range products {
		out = append(out, FromStock(p))
	}
	return out
}

// FromOrders maps an order slice.
func FromOrders(orders []model.Order) []Record {
	out := make([]Record, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

// Flatten lifts the nested line items of order records into standalone
// order_items records, each prefixed with the owning order id. Parent order
// is preserved, so flattening a chunk of orders yields exactly that chunk's
// items.
func Flatten(orders []Record) []Record {
	var out []Record
	for _, order := range orders {
		field, ok := order.Field(ItemsField)
		if !ok {
			continue
		}
		for _, item := range field.Value.Records() {
			fields := make([]Field, 0, len(item.Fields)+1)
			fields = append(fields, Field{Name: "order_id", Value: Int(order.ID)})
			fields = append(fields, item.Fields...)
			out = append(out, Record{Kind: OrderItems, Fields: fields})
		}
	}
	return out
}
