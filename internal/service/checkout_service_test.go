package service

import (
	"context"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
	"github.com/Rouggerxavier/projeto-chatbot/internal/repository/specification"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my phone is 5551999999", "5551999999"},
		{"call me at (555) 123-4567", "5551234567"},
		{"55 5199 9999", "5551999999"},
		{"1234567", ""},
		{"no number here", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePhone(tt.in), tt.in)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"my name is Joan", "Joan"},
		{"hi, this is Ana Clara.", "Ana Clara"},
		{"call me Bob!", "Bob"},
		{"i want cement", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseName(tt.in), tt.in)
	}
}

type fakeStateRepo struct {
	rows map[string]*entity.SessionState
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{rows: map[string]*entity.SessionState{}}
}

func (f *fakeStateRepo) FindOne(_ context.Context, sessionID string) (*entity.SessionState, error) {
	return f.rows[sessionID], nil
}

func (f *fakeStateRepo) Save(_ context.Context, st *entity.SessionState) error {
	f.rows[st.SessionID] = st
	return nil
}

func (f *fakeStateRepo) Delete(_ context.Context, sessionID string) error {
	delete(f.rows, sessionID)
	return nil
}

type fakeCustomerRepo struct {
	saved *entity.Customer
}

func (f *fakeCustomerRepo) FindBySession(context.Context, string) (*entity.Customer, error) {
	return f.saved, nil
}

func (f *fakeCustomerRepo) Upsert(_ context.Context, c *entity.Customer) error {
	f.saved = c
	return nil
}

type fakeOrderRepo struct {
	created []*entity.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	f.created = append(f.created, o)
	return nil
}

func (f *fakeOrderRepo) FindOne(context.Context, ...specification.Specification) (*entity.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Order, error) {
	return f.created, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type checkoutFixture struct {
	svc       ICheckoutService
	cart      ICartService
	store     *state.Store
	orderRepo *fakeOrderRepo
	custRepo  *fakeCustomerRepo
}

func newCheckoutFixture() *checkoutFixture {
	budgetRepo := newFakeBudgetRepo()
	store := state.NewStore(newFakeStateRepo())
	cart := NewCartService(budgetRepo)
	orderRepo := &fakeOrderRepo{}
	custRepo := &fakeCustomerRepo{}
	svc := NewCheckoutService(store, cart, custRepo, orderRepo, budgetRepo, nil, nopLogger{})
	return &checkoutFixture{svc: svc, cart: cart, store: store, orderRepo: orderRepo, custRepo: custRepo}
}

func TestCheckoutReady(t *testing.T) {
	fx := newCheckoutFixture()
	ctx := context.Background()

	ready, err := fx.svc.Ready(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ready)

	_, err = fx.store.Patch(ctx, "s1", map[string]interface{}{
		state.KeyDeliveryPref:  "delivery",
		state.KeyPaymentMethod: "pix",
		state.KeyNeighborhood:  "riverside",
	})
	require.NoError(t, err)

	// preferences alone are not enough without items
	ready, _ = fx.svc.Ready(ctx, "s1")
	assert.False(t, ready)

	_, err = fx.cart.AddItem(ctx, "s1", cementProduct(), 4)
	require.NoError(t, err)

	ready, _ = fx.svc.Ready(ctx, "s1")
	assert.True(t, ready)
}

func TestCheckoutReadyDeliveryNeedsAddress(t *testing.T) {
	fx := newCheckoutFixture()
	ctx := context.Background()

	_, _ = fx.cart.AddItem(ctx, "s1", cementProduct(), 4)
	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{
		state.KeyDeliveryPref:  "delivery",
		state.KeyPaymentMethod: "pix",
	})

	ready, _ := fx.svc.Ready(ctx, "s1")
	assert.False(t, ready, "delivery without any address data cannot close")

	// pickup needs no address
	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{state.KeyDeliveryPref: "pickup"})
	ready, _ = fx.svc.Ready(ctx, "s1")
	assert.True(t, ready)
}

func TestCheckoutHandleIgnoresWhenNotInCheckoutMode(t *testing.T) {
	fx := newCheckoutFixture()

	reply, handled, err := fx.svc.Handle(context.Background(), "s1", "anything")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, reply)
}

func TestCheckoutHandleAsksForMissingFieldsInOrder(t *testing.T) {
	fx := newCheckoutFixture()
	ctx := context.Background()
	_, _ = fx.cart.AddItem(ctx, "s1", cementProduct(), 4)
	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{state.KeyCheckoutMode: true})

	reply, handled, err := fx.svc.Handle(ctx, "s1", "lets finalize")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Contains(t, reply, "delivery")
	assert.Contains(t, reply, "pickup")

	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{state.KeyDeliveryPref: "pickup"})
	reply, _, _ = fx.svc.Handle(ctx, "s1", "pickup")
	assert.Contains(t, reply, "payment method")

	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{state.KeyPaymentMethod: "pix"})
	reply, _, _ = fx.svc.Handle(ctx, "s1", "pix")
	assert.Contains(t, reply, "name")

	reply, _, _ = fx.svc.Handle(ctx, "s1", "my name is Joan")
	assert.Contains(t, reply, "phone number")
}

func TestCheckoutHandleClosesOrder(t *testing.T) {
	fx := newCheckoutFixture()
	ctx := context.Background()
	_, _ = fx.cart.AddItem(ctx, "s1", cementProduct(), 4)
	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{
		state.KeyCheckoutMode:  true,
		state.KeyDeliveryPref:  "delivery",
		state.KeyPaymentMethod: "pix",
		state.KeyNeighborhood:  "riverside",
		state.KeyCustomerName:  "Joan",
	})

	reply, handled, err := fx.svc.Handle(ctx, "s1", "my number is 5551999999")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Contains(t, reply, "registered and forwarded to an agent")

	// the summary is rendered before the budget closes, so it lists the items
	assert.Contains(t, reply, "4 x Cement CP II 50kg")
	assert.Contains(t, reply, "Approximate total: $ 115.60")

	require.Len(t, fx.orderRepo.created, 1)
	order := fx.orderRepo.created[0]
	assert.Equal(t, entity.OrderStatusPendingHandoff, order.Status)
	assert.Equal(t, "delivery", order.DeliveryPref)
	assert.Equal(t, "pix", order.PaymentMethod)
	assert.Equal(t, "riverside", order.DeliveryTarget)
	assert.Equal(t, 115.60, order.Total)
	require.Len(t, order.Items, 1)

	require.NotNil(t, fx.custRepo.saved)
	assert.Equal(t, "Joan", fx.custRepo.saved.Name)
	assert.Equal(t, "5551999999", fx.custRepo.saved.Phone)

	// the budget is closed, so a new one starts empty
	budget, _ := fx.cart.OpenBudget(ctx, "s1")
	assert.Nil(t, budget)

	st, _ := fx.store.Get(ctx, "s1")
	assert.False(t, state.Bool(st, state.KeyCheckoutMode))
	assert.Equal(t, order.Id.String(), state.Str(st, state.KeyLastOrderID))
	assert.Contains(t, state.Str(st, state.KeyLastOrderSummary), "Budget summary:")
}

func TestCheckoutHandleEmptyBudget(t *testing.T) {
	fx := newCheckoutFixture()
	ctx := context.Background()
	_, _ = fx.store.Patch(ctx, "s1", map[string]interface{}{
		state.KeyCheckoutMode:  true,
		state.KeyDeliveryPref:  "pickup",
		state.KeyPaymentMethod: "cash",
		state.KeyCustomerName:  "Joan",
		state.KeyCustomerPhone: "5551999999",
	})

	reply, handled, err := fx.svc.Handle(ctx, "s1", "finalize")
	require.NoError(t, err)
	require.True(t, handled)
	assert.Contains(t, reply, "budget is empty")
	assert.Empty(t, fx.orderRepo.created)
}
