package prefs

import (
	"testing"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/dialog/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectNeighborhood(t *testing.T) {
	assert.Equal(t, "riverside", DetectNeighborhood("delivery in Riverside please"))
	assert.Equal(t, "downtown", DetectNeighborhood("neighborhood downtown"))
	assert.Equal(t, "", DetectNeighborhood("some other place"))
}

func TestAddressPatch(t *testing.T) {
	patch := AddressPatch("12345-678")
	require.NotNil(t, patch)
	assert.Equal(t, "12345-678", patch[state.KeyPostalCode])

	// zip without the dash is reformatted
	patch = AddressPatch("12345678")
	require.NotNil(t, patch)
	assert.Equal(t, "12345-678", patch[state.KeyPostalCode])

	patch = AddressPatch("Main Street, 42")
	require.NotNil(t, patch)
	assert.Equal(t, "Main Street, 42", patch[state.KeyAddress])

	patch = AddressPatch("i live in lakeview")
	require.NotNil(t, patch)
	assert.Equal(t, "lakeview", patch[state.KeyNeighborhood])

	assert.Nil(t, AddressPatch("i want cement"))
}

func TestPreferencesPatch(t *testing.T) {
	st := state.Defaults()

	patch := PreferencesPatch("delivery and pix", st)
	require.NotNil(t, patch)
	assert.Equal(t, "delivery", patch[state.KeyDeliveryPref])
	assert.Equal(t, "pix", patch[state.KeyPaymentMethod])

	// unchanged preferences produce no patch
	st[state.KeyDeliveryPref] = "delivery"
	st[state.KeyPaymentMethod] = "pix"
	assert.Nil(t, PreferencesPatch("delivery and pix", st))
}

func TestPreferencesPatchPickupClearsAddress(t *testing.T) {
	st := state.Defaults()
	st[state.KeyDeliveryPref] = "delivery"
	st[state.KeyNeighborhood] = "riverside"
	st[state.KeyAddress] = "Main Street, 42"

	patch := PreferencesPatch("actually i will pick up", st)
	require.NotNil(t, patch)
	assert.Equal(t, "pickup", patch[state.KeyDeliveryPref])
	assert.Nil(t, patch[state.KeyNeighborhood])
	assert.Nil(t, patch[state.KeyPostalCode])
	assert.Nil(t, patch[state.KeyAddress])
}

func TestIsPreferencesOnly(t *testing.T) {
	st := state.Defaults()

	tests := []struct {
		in   string
		want bool
	}{
		{"pix", true},
		{"delivery", true},
		{"ok", true},
		{"12345-678", true},
		{"riverside", true},
		{"neighborhood hillcrest", true},
		{"Main Street, 42", true},
		{"number 42", true},
		{"i want cement", false},
		{"4 bags", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPreferencesOnly(tt.in, st), tt.in)
	}
}

func TestIsPreferencesOnlyNeverInterceptsQuantityAnswers(t *testing.T) {
	st := state.Defaults()
	st[state.KeyAwaitingQty] = true
	assert.False(t, IsPreferencesOnly("pix", st))
	assert.False(t, IsPreferencesOnly("ok", st))
}
