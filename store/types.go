package store

import (
	"time"

	"deepstate/notify"
)

// Product is a catalog entry. Its stock is unexported, so only Fields
// compares and copies it.
type Product struct {
	ID         int64
	SKU        string
	Name       string
	PriceCents int64
	Tags       []string
	CreatedAt  time.Time

	inventory int
}

// NewProduct creates a product with stock on hand.
func NewProduct(id int64, sku string, inventory int) Product {
	return Product{ID: id, SKU: sku, inventory: inventory}
}

// Inventory returns the stock on hand.
func (p Product) Inventory() int { return p.inventory }

// Customer is referenced by pointer from orders; Address is an optional value.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *string
	IsActive bool
}

// Order mixes a reference member, a list of values and a dictionary.
type Order struct {
	ID         int64
	Customer   *Customer
	Status     OrderStatus
	TotalCents int64
	Items      []OrderItem
	Notes      map[string]string
	OrderedAt  time.Time
}

// OrderItem holds values only, it is immutable.
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice int64
}

// OrderStatus is a string enum.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Category is a tree whose nodes point back to their parent.
type Category struct {
	Name     string
	Parent   *Category
	Children []*Category
}

// Add links child below c.
func (c *Category) Add(child *Category) *Category {
	child.Parent = c
	c.Children = append(c.Children, child)

	return c
}

// Receipt is issued once: its number never changes after creation.
type Receipt struct {
	Number string `state:"readonly"`
	Totals [3]int64
	Lines  []OrderItem
}

// Cart reports its changes so it can be tracked.
type Cart struct {
	notify.Object `state:"-"`

	Owner string
	Lines *notify.List[*CartLine]
}

// NewCart creates an empty cart.
func NewCart(owner string) *Cart {
	return &Cart{Owner: owner, Lines: notify.NewList[*CartLine]()}
}

// SetOwner assigns Owner.
func (c *Cart) SetOwner(owner string) {
	notify.Assign(&c.Object, &c.Owner, owner, "Owner")
}

// SetLines assigns Lines.
func (c *Cart) SetLines(lines *notify.List[*CartLine]) {
	notify.Assign(&c.Object, &c.Lines, lines, "Lines")
}

// CartLine is one product in a cart.
type CartLine struct {
	notify.Object `state:"-"`

	SKU      string
	Quantity int
}

// NewCartLine creates a line.
func NewCartLine(sku string, quantity int) *CartLine {
	return &CartLine{SKU: sku, Quantity: quantity}
}

// SetQuantity assigns Quantity.
func (l *CartLine) SetQuantity(quantity int) {
	notify.Assign(&l.Object, &l.Quantity, quantity, "Quantity")
}
