package record

// Kind describes an entity kind and where its records land in each dialect:
// Name is the key-value key prefix, Table the relational table. IDColumn is
// the relational column holding Record.ID; it is empty for kinds whose rows
// carry no id of their own.
type Kind struct {
	Name     string
	Table    string
	IDColumn string
	Title    string
}

// The kinds produced by a generation run.
var (
	Users      = Kind{Name: "user", Table: "users", IDColumn: "id", Title: "Users"}
	Products   = Kind{Name: "product", Table: "products", IDColumn: "id", Title: "Products"}
	Stocks     = Kind{Name: "stock", Table: "stocks", IDColumn: "product_id", Title: "Stocks"}
	Orders     = Kind{Name: "order", Table: "orders", IDColumn: "id", Title: "Orders"}
	OrderItems = Kind{Name: "order_item", Table: "order_items", Title: "Order Items"}
)

// Field is a named value. Denormalized marks a copy of an attribute owned by
// another entity: stores that can join omit it, stores that cannot keep it.
type Field struct {
	Name         string
	Value        Value
	Denormalized bool
}

// Record is one entity in dialect-neutral form.
type Record struct {
	Kind   Kind
	ID     int
	Fields []Field
}

// Field returns the field with the given name.
func (r Record) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the names of the fields a store that supports joins keeps:
// denormalized and nested fields are skipped.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Denormalized || f.Value.kind == KindList {
			continue
		}
		cols = append(cols, f.Name)
	}
	return cols
}

// FieldNames returns every field name in declaration order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}
