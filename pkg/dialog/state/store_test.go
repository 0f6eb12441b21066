package state

import (
	"context"
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStateRepo struct {
	rows map[string]*entity.SessionState
}

func newFakeSessionStateRepo() *fakeSessionStateRepo {
	return &fakeSessionStateRepo{rows: map[string]*entity.SessionState{}}
}

func (f *fakeSessionStateRepo) FindOne(_ context.Context, sessionID string) (*entity.SessionState, error) {
	return f.rows[sessionID], nil
}

func (f *fakeSessionStateRepo) Save(_ context.Context, row *entity.SessionState) error {
	f.rows[row.SessionID] = row
	return nil
}

func (f *fakeSessionStateRepo) Delete(_ context.Context, sessionID string) error {
	delete(f.rows, sessionID)
	return nil
}

func TestStoreGetCreatesDefaults(t *testing.T) {
	store := NewStore(newFakeSessionStateRepo())

	st, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	assert.False(t, Bool(st, KeyCheckoutMode))
	assert.Equal(t, "", Str(st, KeyCustomerName))
	assert.Equal(t, 0, Int(st, KeyConsultiveStep))
	assert.NotNil(t, st[KeyStateStack])
}

func TestStorePatchMergesOverDefaults(t *testing.T) {
	store := NewStore(newFakeSessionStateRepo())
	ctx := context.Background()

	st, err := store.Patch(ctx, "s1", map[string]interface{}{
		KeyDeliveryPref: "delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, "delivery", Str(st, KeyDeliveryPref))

	// untouched keys keep their defaults
	assert.False(t, Bool(st, KeyCheckoutMode))

	// a second patch does not clobber the first
	st, err = store.Patch(ctx, "s1", map[string]interface{}{
		KeyPaymentMethod: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, "delivery", Str(st, KeyDeliveryPref))
	assert.Equal(t, "pix", Str(st, KeyPaymentMethod))
}

func TestStoreGetMergesNewDefaultsIntoOldRows(t *testing.T) {
	repo := newFakeSessionStateRepo()
	repo.rows["old"] = &entity.SessionState{
		SessionID: "old",
		State:     map[string]interface{}{KeyCustomerName: "Ann"},
	}
	store := NewStore(repo)

	st, err := store.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "Ann", Str(st, KeyCustomerName))
	// keys the old row never saw still exist after the merge
	_, present := st[KeyConsultiveInvestigation]
	assert.True(t, present)
}

func TestStoreReset(t *testing.T) {
	store := NewStore(newFakeSessionStateRepo())
	ctx := context.Background()

	_, err := store.Patch(ctx, "s1", map[string]interface{}{
		KeyCustomerName: "Ann",
		KeyCheckoutMode: true,
	})
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx, "s1"))

	st, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "", Str(st, KeyCustomerName))
	assert.False(t, Bool(st, KeyCheckoutMode))
}

func TestResetConsultiveContextPreservesCustomerAndCart(t *testing.T) {
	store := NewStore(newFakeSessionStateRepo())
	ctx := context.Background()

	_, err := store.Patch(ctx, "s1", map[string]interface{}{
		KeyCustomerName:            "Ann",
		KeyDeliveryPref:            "delivery",
		KeyConsultiveInvestigation: true,
		KeyConsultiveApplication:   "slab",
		KeyConsultiveProductHint:   "cement",
		KeyRecommendationShown:     true,
	})
	require.NoError(t, err)

	require.NoError(t, store.ResetConsultiveContext(ctx, "s1"))

	st, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", Str(st, KeyCustomerName))
	assert.Equal(t, "delivery", Str(st, KeyDeliveryPref))
	assert.False(t, Bool(st, KeyConsultiveInvestigation))
	assert.Equal(t, "", Str(st, KeyConsultiveApplication))
	assert.Equal(t, "", Str(st, KeyConsultiveProductHint))
	assert.False(t, Bool(st, KeyRecommendationShown))
}

func TestAccessors(t *testing.T) {
	st := map[string]interface{}{
		"s":    "text",
		"b":    true,
		"i":    float64(3), // JSON round-trip shape
		"list": []interface{}{"a", 1, "b"},
		"m":    map[string]interface{}{"k": "v"},
	}

	assert.Equal(t, "text", Str(st, "s"))
	assert.Equal(t, "", Str(st, "missing"))
	assert.True(t, Bool(st, "b"))
	assert.False(t, Bool(st, "s"))
	assert.Equal(t, 3, Int(st, "i"))
	assert.Equal(t, []string{"a", "b"}, Strings(st, "list"))
	assert.Nil(t, Strings(st, "missing"))
	assert.Equal(t, "v", Map(st, "m")["k"])
}
