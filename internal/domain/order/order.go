// Package order models a placed order and the client-side mutations allowed
// on it: address edits and cancellation, both gated by order status.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status enumerates the order lifecycle. Only PENDING and CANCELLED are
// reachable from client actions; the rest are server-driven and observed
// via Fetch.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// CanModify reports whether the client may still mutate order addresses.
// Addresses are mutable only while the order is pending.
func (s Status) CanModify() bool {
	return s == StatusPending
}

// Terminal reports whether the order has reached a final state with no
// further client mutation offered.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusDelivered
}

// Sentinel errors for locally gated operations. None of these involve a
// gateway call.
var (
	// ErrNotFound marks a 404-equivalent gateway response; callers render it
	// differently from generic failures.
	ErrNotFound = errors.New("order not found")
	// ErrNoChanges is a recognized no-op, not a failure: the requested
	// addresses already match the order.
	ErrNoChanges = errors.New("no address changes")
	// ErrNotModifiable rejects address updates once the order has left the
	// pending state.
	ErrNotModifiable = errors.New("order addresses can no longer be changed")
	// ErrNotCancellable rejects cancellation of a non-pending order.
	ErrNotCancellable = errors.New("order can no longer be cancelled")
)

// Item is a line item snapshot taken at order-creation time, immutable
// thereafter.
type Item struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// Order is a placed customer order as last returned by the gateway.
type Order struct {
	ID              int64
	Status          Status
	ShippingAddress string
	BillingAddress  string
	Items           []Item
	Total           decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AddressPatch carries only the address fields that changed; nil fields are
// omitted from the mutation request.
type AddressPatch struct {
	Shipping *string
	Billing  *string
}

// Empty reports whether the patch contains no changes.
func (p AddressPatch) Empty() bool {
	return p.Shipping == nil && p.Billing == nil
}

// Gateway defines the remote order operations the manager depends on.
type Gateway interface {
	// Order returns the order, or ErrNotFound for a 404-equivalent response.
	Order(ctx context.Context, id int64) (*Order, error)
	// UpdateOrderAddress sends only the changed fields and returns the
	// gateway's representation of the updated order.
	UpdateOrderAddress(ctx context.Context, id int64, patch AddressPatch) (*Order, error)
	// CancelOrder cancels the order and returns the server's message.
	CancelOrder(ctx context.Context, id int64) (string, error)
}
