package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/0097eo/ideal-mobile-sub000/internal/domain/cart"
)

// Wire representation of the cart as returned by every cart endpoint.
type cartDTO struct {
	ID         int64           `json:"id"`
	Items      []cartItemDTO   `json:"items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type cartItemDTO struct {
	ID       int64      `json:"id"`
	Product  productDTO `json:"product"`
	Quantity int        `json:"quantity"`
}

type productDTO struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image *string         `json:"image"`
}

func (d cartDTO) domain() *cart.Snapshot {
	lines := make([]cart.Line, len(d.Items))
	for i, item := range d.Items {
		lines[i] = cart.Line{
			ID:       item.ID,
			Product:  item.Product.ref(),
			Quantity: item.Quantity,
		}
	}
	return &cart.Snapshot{
		ID:        d.ID,
		Lines:     lines,
		Total:     d.TotalPrice,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d productDTO) ref() cart.ProductRef {
	ref := cart.ProductRef{
		ID:    d.ID,
		Name:  d.Name,
		Price: d.Price,
	}
	if d.Image != nil {
		ref.Image = *d.Image
	}
	return ref
}

// Cart fetches the current cart.
func (c *Client) Cart(ctx context.Context) (*cart.Snapshot, error) {
	var dto cartDTO
	if err := c.do(ctx, http.MethodGet, "/cart/", nil, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}

// AddCartItem adds or merges a product into the cart; the gateway decides
// which and returns the updated cart either way.
func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) (*cart.Snapshot, error) {
	body := struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	var dto cartDTO
	if err := c.do(ctx, http.MethodPost, "/cart/", body, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}

// UpdateCartItem sets the quantity of an existing cart line.
func (c *Client) UpdateCartItem(ctx context.Context, lineID int64, quantity int) (*cart.Snapshot, error) {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	var dto cartDTO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/item/%d/", lineID), body, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, lineID int64) (*cart.Snapshot, error) {
	var dto cartDTO
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/item/%d/", lineID), nil, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}

// ClearCart empties the cart server-side and returns the now-empty cart.
func (c *Client) ClearCart(ctx context.Context) (*cart.Snapshot, error) {
	var dto cartDTO
	if err := c.do(ctx, http.MethodDelete, "/cart/", nil, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}
