package order

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Manager handles the post-order mutation path. It assumes the caller has
// already confirmed destructive intent (cancellation goes through a blocking
// confirmation step in the UI); the manager enforces status gates, not
// intent.
type Manager struct {
	gw Gateway
	lg *zap.Logger
}

// NewManager creates a Manager.
func NewManager(gw Gateway, lg *zap.Logger) *Manager {
	return &Manager{gw: gw, lg: lg.Named("order")}
}

// Fetch loads the order. A missing order surfaces as ErrNotFound, distinct
// from generic failures.
func (m *Manager) Fetch(ctx context.Context, id int64) (*Order, error) {
	return m.gw.Order(ctx, id)
}

// UpdateAddresses diffs the requested addresses against the order and sends
// only the changed fields. When neither field differs it returns ErrNoChanges
// without calling the gateway. Addresses are mutable only while the order is
// pending; once it has moved on, the request is rejected before any network
// call. On success the gateway's returned representation replaces the local
// order.
func (m *Manager) UpdateAddresses(ctx context.Context, o *Order, shipping, billing string) (*Order, error) {
	if !o.Status.CanModify() {
		return nil, ErrNotModifiable
	}

	var patch AddressPatch
	if shipping != o.ShippingAddress {
		patch.Shipping = &shipping
	}
	if billing != o.BillingAddress {
		patch.Billing = &billing
	}
	if patch.Empty() {
		return nil, ErrNoChanges
	}

	updated, err := m.gw.UpdateOrderAddress(ctx, o.ID, patch)
	if err != nil {
		return nil, errors.Wrap(err, "update order address")
	}
	m.lg.Info("Order addresses updated",
		zap.Int64("order_id", o.ID),
		zap.Bool("shipping_changed", patch.Shipping != nil),
		zap.Bool("billing_changed", patch.Billing != nil),
	)
	return updated, nil
}

// Cancel cancels a pending order and returns the server's message. The
// status is re-checked locally so a non-pending order is refused without a
// network call; the gateway remains the final authority and its rejection
// surfaces as a regular error.
func (m *Manager) Cancel(ctx context.Context, o *Order) (string, error) {
	if o.Status != StatusPending {
		return "", ErrNotCancellable
	}

	msg, err := m.gw.CancelOrder(ctx, o.ID)
	if err != nil {
		return "", err
	}
	m.lg.Info("Order cancelled", zap.Int64("order_id", o.ID))
	return msg, nil
}
