// Package cart holds the client-side copy of the server-authoritative
// shopping cart and the store that synchronizes it through the gateway.
package cart

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef is the product snapshot embedded in a cart line, captured at
// add-to-cart time.
type ProductRef struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	// Image is the product image URL; empty when the product has none.
	Image string
}

// Line is one server-tracked entry representing a product and its quantity.
// The ID is server-assigned and stable across mutations of the same logical
// line. Quantity is always positive: a line reduced to zero is removed, never
// stored with quantity zero.
type Line struct {
	ID       int64
	Product  ProductRef
	Quantity int
}

// Snapshot is the local copy of the cart as last returned by the gateway.
// ID is zero until the first item is added. Total is the server-computed
// total; it is never recomputed client-side for authoritative display.
type Snapshot struct {
	ID        int64
	Lines     []Line
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Empty reports whether the snapshot has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// Gateway defines the remote cart operations the store depends on. Every
// call returns the full updated cart, which replaces the local snapshot
// wholesale.
type Gateway interface {
	Cart(ctx context.Context) (*Snapshot, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (*Snapshot, error)
	UpdateCartItem(ctx context.Context, lineID int64, quantity int) (*Snapshot, error)
	RemoveCartItem(ctx context.Context, lineID int64) (*Snapshot, error)
	ClearCart(ctx context.Context) (*Snapshot, error)
}
