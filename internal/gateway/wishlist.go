package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/0097eo/ideal-mobile-sub000/internal/domain/wishlist"
)

type wishlistEntryDTO struct {
	Product productDTO `json:"product"`
}

func wishlistDomain(dtos []wishlistEntryDTO) []wishlist.Entry {
	entries := make([]wishlist.Entry, len(dtos))
	for i, d := range dtos {
		ref := d.Product.ref()
		entries[i] = wishlist.Entry{
			ProductID: ref.ID,
			Name:      ref.Name,
			Price:     ref.Price,
			Image:     ref.Image,
		}
	}
	return entries
}

// Wishlist fetches the saved products.
func (c *Client) Wishlist(ctx context.Context) ([]wishlist.Entry, error) {
	var dtos []wishlistEntryDTO
	if err := c.do(ctx, http.MethodGet, "/wishlist/", nil, &dtos); err != nil {
		return nil, err
	}
	return wishlistDomain(dtos), nil
}

// AddWishlistItem saves a product and returns the updated wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, productID int64) ([]wishlist.Entry, error) {
	body := struct {
		ProductID int64 `json:"product_id"`
	}{ProductID: productID}

	var dtos []wishlistEntryDTO
	if err := c.do(ctx, http.MethodPost, "/wishlist/", body, &dtos); err != nil {
		return nil, err
	}
	return wishlistDomain(dtos), nil
}

// RemoveWishlistItem removes a product and returns the updated wishlist.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID int64) ([]wishlist.Entry, error) {
	var dtos []wishlistEntryDTO
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d/", productID), nil, &dtos); err != nil {
		return nil, err
	}
	return wishlistDomain(dtos), nil
}
