package order

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock gateway ---

type mockGateway struct {
	order     *Order
	orderErr  error
	lastPatch *AddressPatch
	patchErr  error

	cancelMsg   string
	cancelErr   error
	cancelCalls int
	updateCalls int
	fetchCalls  int
}

func (m *mockGateway) Order(_ context.Context, _ int64) (*Order, error) {
	m.fetchCalls++
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	out := *m.order
	return &out, nil
}

func (m *mockGateway) UpdateOrderAddress(_ context.Context, _ int64, patch AddressPatch) (*Order, error) {
	m.updateCalls++
	m.lastPatch = &patch
	if m.patchErr != nil {
		return nil, m.patchErr
	}
	out := *m.order
	if patch.Shipping != nil {
		out.ShippingAddress = *patch.Shipping
	}
	if patch.Billing != nil {
		out.BillingAddress = *patch.Billing
	}
	return &out, nil
}

func (m *mockGateway) CancelOrder(_ context.Context, _ int64) (string, error) {
	m.cancelCalls++
	if m.cancelErr != nil {
		return "", m.cancelErr
	}
	return m.cancelMsg, nil
}

// --- Helpers ---

func pendingOrder() *Order {
	return &Order{
		ID:              42,
		Status:          StatusPending,
		ShippingAddress: "Moi Avenue, Nairobi",
		BillingAddress:  "Moi Avenue, Nairobi",
		Items: []Item{
			{Name: "Phone case", UnitPrice: decimal.RequireFromString("1000.00"), Quantity: 2, Subtotal: decimal.RequireFromString("2000.00")},
		},
		Total: decimal.RequireFromString("2000.00"),
	}
}

func newTestManager(gw Gateway) *Manager {
	return NewManager(gw, zap.NewNop())
}

// --- Tests ---

func TestFetch_NotFoundIsDistinct(t *testing.T) {
	gw := &mockGateway{orderErr: ErrNotFound}
	m := newTestManager(gw)

	_, err := m.Fetch(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAddresses_NoChangesSkipsGateway(t *testing.T) {
	gw := &mockGateway{order: pendingOrder()}
	m := newTestManager(gw)
	o := pendingOrder()

	_, err := m.UpdateAddresses(context.Background(), o, o.ShippingAddress, o.BillingAddress)
	require.ErrorIs(t, err, ErrNoChanges)
	assert.Equal(t, 0, gw.updateCalls, "no gateway call for a no-op update")
}

func TestUpdateAddresses_SendsOnlyChangedFields(t *testing.T) {
	gw := &mockGateway{order: pendingOrder()}
	m := newTestManager(gw)
	o := pendingOrder()

	updated, err := m.UpdateAddresses(context.Background(), o, "Kenyatta Avenue, Nairobi", o.BillingAddress)
	require.NoError(t, err)

	require.NotNil(t, gw.lastPatch)
	require.NotNil(t, gw.lastPatch.Shipping)
	assert.Equal(t, "Kenyatta Avenue, Nairobi", *gw.lastPatch.Shipping)
	assert.Nil(t, gw.lastPatch.Billing, "unchanged billing must be omitted from the patch")
	assert.Equal(t, "Kenyatta Avenue, Nairobi", updated.ShippingAddress)
}

func TestUpdateAddresses_RejectedOnceNotPending(t *testing.T) {
	for _, status := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			gw := &mockGateway{order: pendingOrder()}
			m := newTestManager(gw)
			o := pendingOrder()
			o.Status = status

			_, err := m.UpdateAddresses(context.Background(), o, "New address", o.BillingAddress)
			require.ErrorIs(t, err, ErrNotModifiable)
			assert.Equal(t, 0, gw.updateCalls, "rejected before any network call")
		})
	}
}

func TestCancel_Pending(t *testing.T) {
	gw := &mockGateway{order: pendingOrder(), cancelMsg: "Order deleted successfully"}
	m := newTestManager(gw)

	msg, err := m.Cancel(context.Background(), pendingOrder())
	require.NoError(t, err)
	assert.Equal(t, "Order deleted successfully", msg)
	assert.Equal(t, 1, gw.cancelCalls)
}

func TestCancel_NonPendingRejectedWithoutNetworkCall(t *testing.T) {
	gw := &mockGateway{order: pendingOrder()}
	m := newTestManager(gw)
	o := pendingOrder()
	o.Status = StatusShipped

	_, err := m.Cancel(context.Background(), o)
	require.ErrorIs(t, err, ErrNotCancellable)
	assert.Equal(t, 0, gw.cancelCalls)
}

func TestCancel_GatewayRemainsAuthority(t *testing.T) {
	gw := &mockGateway{order: pendingOrder(), cancelErr: errors.New("order already processing")}
	m := newTestManager(gw)

	_, err := m.Cancel(context.Background(), pendingOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already processing")
}

func TestStatus_Gates(t *testing.T) {
	assert.True(t, StatusPending.CanModify())
	assert.False(t, StatusProcessing.CanModify())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.False(t, StatusShipped.Terminal())
}
