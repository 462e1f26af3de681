package model

// Dataset holds every entity of one generation run. Each slice is a dense
// arena: the entity with id N lives at index N-1.
type Dataset struct {
	Users    []User
	Products []Product
	Orders   []Order
}

// User returns the user with the given id.
func (d *Dataset) User(id int) (User, bool) {
	if d == nil || id < 1 || id > len(d.Users) {
		return User{}, false
	}
	return d.Users[id-1], true
}

// Product returns the product with the given id.
func (d *Dataset) Product(id int) (Product, bool) {
	if d == nil || id < 1 || id > len(d.Products) {
		return Product{}, false
	}
	return d.Products[id-1], true
}

// Order returns the order with the given id.
func (d *Dataset) Order(id int) (Order, bool) {
	if d == nil || id < 1 || id > len(d.Orders) {
		return Order{}, false
	}
	return d.Orders[id-1], true
}

// Stats summarises dataset volumes.
type Stats struct {
	Users      int `json:"users" yaml:"users"`
	Products   int `json:"products" yaml:"products"`
	Orders     int `json:"orders" yaml:"orders"`
	OrderItems int `json:"order_items" yaml:"order_items"`
}

// Stats counts the entities in the dataset.
func (d *Dataset) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	stats := Stats{
		Users:    len(d.Users),
		Products: len(d.Products),
		Orders:   len(d.Orders),
	}
	for _, order := range d.Orders {
		stats.OrderItems += len(order.Items)
	}
	return stats
}
