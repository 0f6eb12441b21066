package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupExactMatch(t *testing.T) {
	rec := Lookup(map[string]string{
		"product":     "cement",
		"application": "slab",
		"environment": "exterior",
		"exposure":    "exposed",
		"load_type":   "residential",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"cp iii", "cp iv"}, rec.Products)
	assert.Contains(t, rec.Reasoning, "sulfate")
	require.Len(t, rec.Options, 2)
	assert.Equal(t, "CP III", rec.Options[0].Name)
}

func TestLookupInteriorSlab(t *testing.T) {
	rec := Lookup(map[string]string{
		"product":     "cement",
		"application": "slab",
		"environment": "interior",
		"load_type":   "residential",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"cp ii", "cp iii"}, rec.Products)
}

func TestLookupApplicationPinsAnswer(t *testing.T) {
	rec := Lookup(map[string]string{
		"product":     "cement cp",
		"application": "foundation",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"cp iii", "cp iv"}, rec.Products)
}

func TestLookupIgnoresUnconstrainedFields(t *testing.T) {
	rec := Lookup(map[string]string{
		"product":     "sand",
		"application": "concrete",
		"grain":       "coarse",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"medium sand", "coarse sand"}, rec.Products)
}

func TestLookupApplicationFallback(t *testing.T) {
	// environment matches no exact rule, so the application-only pass wins
	rec := Lookup(map[string]string{
		"product":     "cement",
		"application": "slab",
		"environment": "underwater",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"cp iii", "cp iv"}, rec.Products)
}

func TestLookupPaintBySurface(t *testing.T) {
	rec := Lookup(map[string]string{
		"product":     "paint",
		"surface":     "wood",
		"environment": "interior",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"enamel", "varnish"}, rec.Products)
}

func TestLookupMisses(t *testing.T) {
	assert.Nil(t, Lookup(map[string]string{"product": "tape measure", "application": "measuring"}))
	assert.Nil(t, Lookup(map[string]string{"product": "cement"}))
	assert.Nil(t, Lookup(nil))
}

func TestLookupNormalizesInput(t *testing.T) {
	rec := Lookup(map[string]string{
		"product":     "Cement",
		"application": "PLASTER",
	})
	require.NotNil(t, rec)
	assert.Equal(t, []string{"cp ii"}, rec.Products)
}
