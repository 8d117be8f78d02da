package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/0097eo/ideal-mobile-sub000/internal/domain/cart"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/order"
)

// OrderCreator creates an order from resolved addresses.
type OrderCreator interface {
	CreateOrder(ctx context.Context, shipping, billing string) (*order.Order, error)
}

// PaymentInitiator issues an M-Pesa push-payment request for an existing
// order. Completion of the push is asynchronous and outside this subsystem's
// observation; only initiation is reported.
type PaymentInitiator interface {
	InitiateMpesaPayment(ctx context.Context, orderID int64, phone string) (string, error)
}

// CartClearer empties the cart after successful order placement. Satisfied
// by *cart.Store.
type CartClearer interface {
	Clear(ctx context.Context) (*cart.Snapshot, error)
}

// Outcome is the sealed result union of Submit. Every branch of the checkout
// flow resolves to exactly one of these; nothing is thrown past the caller.
type Outcome interface {
	checkoutOutcome()
}

// EmptyCart signals the caller to navigate away: there is nothing to check
// out.
type EmptyCart struct{}

// ValidationFailed carries the field-keyed validation errors for inline
// rendering. No network call was made.
type ValidationFailed struct {
	Fields map[string]string
}

// OrderCreationFailed means no order exists; the whole submission can be
// retried.
type OrderCreationFailed struct {
	Message string
}

// OrderPlaced is the terminal success for cash-on-delivery: the order is
// finalized and the cart cleared. The caller navigates to the confirmation
// view keyed by OrderID.
type OrderPlaced struct {
	OrderID int64
}

// AwaitingPayment means the push payment was sent and the order is placed;
// payment confirmation arrives asynchronously.
type AwaitingPayment struct {
	OrderID int64
}

// PaymentInitiationFailed is distinct from OrderCreationFailed: the order
// already exists server-side and is merely unpaid. OrderID stays available
// to the caller.
type PaymentInitiationFailed struct {
	OrderID int64
	Message string
}

// PaymentUnavailable reports a payment method that is not yet implemented.
// No gateway action was taken.
type PaymentUnavailable struct {
	Method PaymentMethod
}

func (EmptyCart) checkoutOutcome()               {}
func (ValidationFailed) checkoutOutcome()        {}
func (OrderCreationFailed) checkoutOutcome()     {}
func (OrderPlaced) checkoutOutcome()             {}
func (AwaitingPayment) checkoutOutcome()         {}
func (PaymentInitiationFailed) checkoutOutcome() {}
func (PaymentUnavailable) checkoutOutcome()      {}

// messageCarrier is implemented by gateway errors that carry a human-readable
// server message.
type messageCarrier interface {
	UserMessage() string
}

// failureMessage extracts the server's message from err when present, else
// returns the fallback.
func failureMessage(err error, fallback string) string {
	var mc messageCarrier
	if errors.As(err, &mc) && mc.UserMessage() != "" {
		return mc.UserMessage()
	}
	return fallback
}

// Orchestrator drives checkout submission. It does not navigate and it does
// not guard against double submission; the caller disables the submit action
// for the duration of the call.
type Orchestrator struct {
	orders   OrderCreator
	payments PaymentInitiator
	cart     CartClearer
	lg       *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(orders OrderCreator, payments PaymentInitiator, cartStore CartClearer, lg *zap.Logger) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		payments: payments,
		cart:     cartStore,
		lg:       lg.Named("checkout"),
	}
}

// Submit runs the checkout protocol against the given cart snapshot and
// form: validate locally, create the order, then branch on payment method.
// Each step can fail independently and resolves to a distinguishable,
// user-actionable Outcome.
func (o *Orchestrator) Submit(ctx context.Context, snap cart.Snapshot, form Form) Outcome {
	if snap.Empty() {
		return EmptyCart{}
	}
	if fields := form.Validate(); len(fields) > 0 {
		return ValidationFailed{Fields: fields}
	}
	// Card is validated above but not implemented; bail out before any
	// gateway traffic.
	if form.Method == PaymentCard {
		return PaymentUnavailable{Method: PaymentCard}
	}

	created, err := o.orders.CreateOrder(ctx, form.ResolvedShipping(), form.ResolvedBilling())
	if err != nil {
		o.lg.Warn("Order creation failed", zap.Error(err))
		return OrderCreationFailed{Message: failureMessage(err, "Failed to create order")}
	}
	o.lg.Info("Order created",
		zap.Int64("order_id", created.ID),
		zap.String("payment_method", string(form.Method)),
	)

	switch form.Method {
	case PaymentMpesa:
		phone := NormalizePhone(form.MpesaPhone)
		status, err := o.payments.InitiateMpesaPayment(ctx, created.ID, phone)
		if err != nil {
			// The order exists server-side; it is unpaid, not lost.
			o.lg.Warn("Payment initiation failed", zap.Int64("order_id", created.ID), zap.Error(err))
			return PaymentInitiationFailed{
				OrderID: created.ID,
				Message: failureMessage(err, "Failed to initiate M-Pesa payment"),
			}
		}
		o.lg.Info("Push payment sent", zap.Int64("order_id", created.ID), zap.String("status", status))
		o.clearCart(ctx, created.ID)
		return AwaitingPayment{OrderID: created.ID}

	default: // cash on delivery
		o.clearCart(ctx, created.ID)
		return OrderPlaced{OrderID: created.ID}
	}
}

// clearCart empties the cart after the order is placed. A clearing failure
// is logged, never promoted to a checkout failure: the order exists either
// way and the cart re-syncs on the next refresh.
func (o *Orchestrator) clearCart(ctx context.Context, orderID int64) {
	if _, err := o.cart.Clear(ctx); err != nil {
		o.lg.Warn("Cart clear after order placement failed",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}
