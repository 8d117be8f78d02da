package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0097eo/ideal-mobile-sub000/internal/domain/cart"
	"github.com/0097eo/ideal-mobile-sub000/internal/domain/order"
)

// --- Mocks ---

type mockOrderCreator struct {
	order        *order.Order
	err          error
	calls        int
	lastShipping string
	lastBilling  string
}

func (m *mockOrderCreator) CreateOrder(_ context.Context, shipping, billing string) (*order.Order, error) {
	m.calls++
	m.lastShipping = shipping
	m.lastBilling = billing
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

type mockPaymentInitiator struct {
	status    string
	err       error
	calls     int
	lastPhone string
}

func (m *mockPaymentInitiator) InitiateMpesaPayment(_ context.Context, _ int64, phone string) (string, error) {
	m.calls++
	m.lastPhone = phone
	if m.err != nil {
		return "", m.err
	}
	return m.status, nil
}

type mockCartClearer struct {
	calls int
	err   error
}

func (m *mockCartClearer) Clear(_ context.Context) (*cart.Snapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &cart.Snapshot{}, nil
}

// remoteErr mimics a gateway error carrying a server message.
type remoteErr struct{ msg string }

func (e *remoteErr) Error() string       { return e.msg }
func (e *remoteErr) UserMessage() string { return e.msg }

// --- Helpers ---

type fixture struct {
	orders   *mockOrderCreator
	payments *mockPaymentInitiator
	clearer  *mockCartClearer
	orch     *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		orders:   &mockOrderCreator{order: &order.Order{ID: 42, Status: order.StatusPending}},
		payments: &mockPaymentInitiator{status: "pending"},
		clearer:  &mockCartClearer{},
	}
	f.orch = NewOrchestrator(f.orders, f.payments, f.clearer, zap.NewNop())
	return f
}

func nonEmptySnapshot() cart.Snapshot {
	return cart.Snapshot{
		ID: 7,
		Lines: []cart.Line{
			{ID: 11, Product: cart.ProductRef{ID: 101, Name: "Phone case", Price: decimal.RequireFromString("1000.00")}, Quantity: 2},
		},
		Total: decimal.RequireFromString("2000.00"),
	}
}

// --- Tests ---

func TestSubmit_EmptyCart(t *testing.T) {
	f := newFixture()

	out := f.orch.Submit(context.Background(), cart.Snapshot{}, validCODForm())
	assert.IsType(t, EmptyCart{}, out)
	assert.Equal(t, 0, f.orders.calls)
}

func TestSubmit_ValidationFailureSkipsNetwork(t *testing.T) {
	f := newFixture()
	form := validCODForm()
	form.ShippingAddress = ""

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), form)
	vf, ok := out.(ValidationFailed)
	require.True(t, ok, "expected ValidationFailed, got %T", out)
	assert.Equal(t, "Shipping address is required", vf.Fields["shipping_address"])
	assert.Equal(t, 0, f.orders.calls, "validation errors never reach the network")
}

func TestSubmit_CashOnDelivery(t *testing.T) {
	f := newFixture()

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), validCODForm())
	placed, ok := out.(OrderPlaced)
	require.True(t, ok, "expected OrderPlaced, got %T", out)
	assert.Equal(t, int64(42), placed.OrderID)
	assert.Equal(t, 1, f.clearer.calls, "cart cleared after placement")
	assert.Equal(t, 0, f.payments.calls)
}

func TestSubmit_PaddedShippingAddressSubmittedTrimmed(t *testing.T) {
	f := newFixture()
	form := validCODForm()
	form.ShippingAddress = "  Moi Avenue, Nairobi  "
	form.SameAsShipping = true

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), form)
	assert.IsType(t, OrderPlaced{}, out)
	assert.Equal(t, "Moi Avenue, Nairobi", f.orders.lastShipping)
	assert.Equal(t, f.orders.lastShipping, f.orders.lastBilling,
		"same-as-shipping must send identical address strings")
}

func TestSubmit_OrderCreationFailed(t *testing.T) {
	f := newFixture()
	f.orders.err = &remoteErr{msg: "Failed to create order"}

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), validCODForm())
	failed, ok := out.(OrderCreationFailed)
	require.True(t, ok, "expected OrderCreationFailed, got %T", out)
	assert.Equal(t, "Failed to create order", failed.Message)
	assert.Equal(t, 0, f.clearer.calls)
}

func TestSubmit_OrderCreationFailed_GenericFallback(t *testing.T) {
	f := newFixture()
	f.orders.err = errors.New("dial tcp: connection refused")

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), validCODForm())
	failed, ok := out.(OrderCreationFailed)
	require.True(t, ok)
	assert.Equal(t, "Failed to create order", failed.Message)
}

func TestSubmit_Mpesa_NormalizesPhoneAndAwaitsPayment(t *testing.T) {
	f := newFixture()
	form := validCODForm()
	form.Method = PaymentMpesa
	form.MpesaPhone = "0712345678"

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), form)
	awaiting, ok := out.(AwaitingPayment)
	require.True(t, ok, "expected AwaitingPayment, got %T", out)
	assert.Equal(t, int64(42), awaiting.OrderID)
	assert.Equal(t, "254712345678", f.payments.lastPhone)
	assert.Equal(t, 1, f.clearer.calls, "order is placed regardless of payment timing")
}

func TestSubmit_Mpesa_PaymentInitiationFailedIsDistinct(t *testing.T) {
	f := newFixture()
	f.payments.err = &remoteErr{msg: "Push request rejected"}
	form := validCODForm()
	form.Method = PaymentMpesa
	form.MpesaPhone = "0712345678"

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), form)
	failed, ok := out.(PaymentInitiationFailed)
	require.True(t, ok, "expected PaymentInitiationFailed, got %T", out)
	// The order exists server-side; its id stays available to the caller.
	assert.Equal(t, int64(42), failed.OrderID)
	assert.Equal(t, "Push request rejected", failed.Message)
	assert.Equal(t, 1, f.orders.calls)
	assert.Equal(t, 0, f.clearer.calls, "cart kept until the order is actually placed with payment sent")
}

func TestSubmit_CardUnavailableWithoutGatewayAction(t *testing.T) {
	f := newFixture()
	form := validCODForm()
	form.Method = PaymentCard

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), form)
	unavailable, ok := out.(PaymentUnavailable)
	require.True(t, ok, "expected PaymentUnavailable, got %T", out)
	assert.Equal(t, PaymentCard, unavailable.Method)
	assert.Equal(t, 0, f.orders.calls)
	assert.Equal(t, 0, f.payments.calls)
	assert.Equal(t, 0, f.clearer.calls)
}

func TestSubmit_ClearFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture()
	f.clearer.err = errors.New("gateway down")

	out := f.orch.Submit(context.Background(), nonEmptySnapshot(), validCODForm())
	assert.IsType(t, OrderPlaced{}, out)
}
