package gateway

import (
	"context"
	"net/http"
)

// InitiateMpesaPayment asks the gateway to trigger an M-Pesa push payment on
// the customer's phone for an existing order. The phone must already be in
// the country-code-prefixed form. The returned status describes initiation
// only; payment completion is asynchronous.
func (c *Client) InitiateMpesaPayment(ctx context.Context, orderID int64, phone string) (string, error) {
	body := struct {
		OrderID int64  `json:"order_id"`
		Phone   string `json:"phone"`
	}{OrderID: orderID, Phone: phone}

	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments/mpesa/", body, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}
