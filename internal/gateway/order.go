package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/0097eo/ideal-mobile-sub000/internal/domain/order"
)

type orderDTO struct {
	ID              int64           `json:"id"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	Items           []orderItemDTO  `json:"items"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type orderItemDTO struct {
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func (d orderDTO) domain() *order.Order {
	items := make([]order.Item, len(d.Items))
	for i, item := range d.Items {
		items[i] = order.Item{
			Name:      item.ProductName,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
	}
	return &order.Order{
		ID:              d.ID,
		Status:          order.Status(d.Status),
		ShippingAddress: d.ShippingAddress,
		BillingAddress:  d.BillingAddress,
		Items:           items,
		Total:           d.TotalPrice,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// CreateOrder places an order from the current cart with the resolved
// addresses.
func (c *Client) CreateOrder(ctx context.Context, shipping, billing string) (*order.Order, error) {
	body := struct {
		ShippingAddress string `json:"shipping_address"`
		BillingAddress  string `json:"billing_address"`
	}{ShippingAddress: shipping, BillingAddress: billing}

	var dto orderDTO
	if err := c.do(ctx, http.MethodPost, "/orders/create/", body, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}

// Order loads an order by id. A 404 maps to order.ErrNotFound since callers
// render it differently from generic failures.
func (c *Client) Order(ctx context.Context, id int64) (*order.Order, error) {
	var dto orderDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d/", id), nil, &dto); err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.Status == http.StatusNotFound {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	return dto.domain(), nil
}

// UpdateOrderAddress sends only the changed address fields and returns the
// gateway's representation of the updated order.
func (c *Client) UpdateOrderAddress(ctx context.Context, id int64, patch order.AddressPatch) (*order.Order, error) {
	body := struct {
		ShippingAddress *string `json:"shipping_address,omitempty"`
		BillingAddress  *string `json:"billing_address,omitempty"`
	}{ShippingAddress: patch.Shipping, BillingAddress: patch.Billing}

	var dto orderDTO
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/address/", id), body, &dto); err != nil {
		return nil, err
	}
	return dto.domain(), nil
}

// CancelOrder cancels the order and returns the server's confirmation
// message.
func (c *Client) CancelOrder(ctx context.Context, id int64) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d/delete/", id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
