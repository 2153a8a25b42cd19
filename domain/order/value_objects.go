package order

import (
	"fmt"
	"strings"

	"ddd-course/domain/shared"
)

// Quantity number of units of one product, must be > 0
type Quantity struct {
	value int
}

// NewQuantity creates a validated Quantity
func NewQuantity(value int) (Quantity, error) {
	if value <= 0 {
		return Quantity{}, shared.NewValidationError("quantity", "value", "quantity must be positive")
	}
	return Quantity{value: value}, nil
}

// Int returns the number of units
func (q Quantity) Int() int { return q.value }

// Add sums two quantities
func (q Quantity) Add(other Quantity) Quantity { return Quantity{value: q.value + other.value} }

// Equals compares by value
func (q Quantity) Equals(other any) bool {
	o, ok := other.(Quantity)
	return ok && q == o
}

func (q Quantity) String() string { return fmt.Sprintf("%d", q.value) }

// MarshalJSON renders the plain number
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// Product catalogue reference used when adding items.
// Products live outside the order aggregate; name and price are frozen into the item.
type Product struct {
	id    shared.ID
	name  string
	price shared.Money
}

// NewProduct creates a validated Product reference
func NewProduct(id shared.ID, name string, price shared.Money) (Product, error) {
	if id.IsZero() {
		return Product{}, shared.NewValidationError("product", "id", "product id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, shared.NewValidationError("product", "name", "product name is required")
	}
	if price.Currency() == "" {
		return Product{}, shared.NewValidationError("product", "price", "product price is required")
	}
	return Product{id: id, name: name, price: price}, nil
}

func (p Product) ID() shared.ID       { return p.id }
func (p Product) Name() string        { return p.name }
func (p Product) Price() shared.Money { return p.price }

// Equals compares by value
func (p Product) Equals(other any) bool {
	o, ok := other.(Product)
	return ok && p == o
}

var (
	_ shared.ValueObject = Quantity{}
	_ shared.ValueObject = Product{}
)
