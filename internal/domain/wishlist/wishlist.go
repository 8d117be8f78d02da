// Package wishlist tracks the products a customer has saved for later. It is
// a lighter-weight sibling of the cart store: a membership set instead of
// quantities, with denormalized product snapshots for offline-tolerant
// display.
package wishlist

import (
	"context"

	"github.com/shopspring/decimal"
)

// Entry is a saved product with enough denormalized detail to render without
// a product lookup.
type Entry struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Image     string
}

// Gateway defines the remote wishlist operations the store depends on.
type Gateway interface {
	Wishlist(ctx context.Context) ([]Entry, error)
	AddWishlistItem(ctx context.Context, productID int64) ([]Entry, error)
	RemoveWishlistItem(ctx context.Context, productID int64) ([]Entry, error)
}
