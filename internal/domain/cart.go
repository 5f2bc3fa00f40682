package domain

import (
	"time"

	"github.com/apper-canvas/shopsync/pkg/money"
)

// Cart represents a user's shopping cart. Total is always derived from the
// current items via Recalculate, never patched incrementally.
type Cart struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Items     []CartItem  `json:"items"`
	Total     money.Cents `json:"total"`
	Currency  string      `json:"currency"`
	Version   int         `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CartItem represents a single line in the cart.
type CartItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	ImageURL  string      `json:"image_url,omitempty"`
}

// NewCart creates an empty cart for the given user.
func NewCart(id, userID string, now time.Time) *Cart {
	return &Cart{
		ID:        id,
		UserID:    userID,
		Items:     []CartItem{},
		Currency:  "USD",
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LineTotal returns the extended price of this line.
func (i CartItem) LineTotal() money.Cents {
	return i.UnitPrice * money.Cents(i.Quantity)
}

// Recalculate recomputes the cart total from the full item list. Every
// mutation must call this before persisting; the stored total is never
// adjusted in place.
func (c *Cart) Recalculate() {
	var total money.Cents
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	c.Total = total
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line matching the given product ID,
// or -1 if the product is not in the cart.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
