package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

func multiVariantProduct() models.Product {
	return models.Product{
		ID: "gid://shopify/Product/1",
		Variants: []models.Variant{
			{
				ID:        "v-small-strawberry",
				Available: true,
				SelectedOptions: []models.SelectedOption{
					{Name: "Size", Value: "Small"},
					{Name: "Flavor", Value: "Strawberry"},
				},
			},
			{
				ID:        "v-large-strawberry",
				Available: false,
				SelectedOptions: []models.SelectedOption{
					{Name: "Size", Value: "Large"},
					{Name: "Flavor", Value: "Strawberry"},
				},
			},
			{
				ID:        "v-large-mango",
				Available: true,
				SelectedOptions: []models.SelectedOption{
					{Name: "Size", Value: "Large"},
					{Name: "Flavor", Value: "Mango"},
				},
			},
		},
	}
}

func TestEmptySelectionReturnsFirstVariant(t *testing.T) {
	id, err := Resolve(multiVariantProduct(), nil)
	require.NoError(t, err)
	assert.Equal(t, "v-small-strawberry", id)
}

func TestSingleVariantIgnoresSelection(t *testing.T) {
	p := models.Product{Variants: []models.Variant{{ID: "only"}}}
	id, err := Resolve(p, map[string]string{"Size": "Large"})
	require.NoError(t, err)
	assert.Equal(t, "only", id)
}

func TestFullSelectionMatches(t *testing.T) {
	id, err := Resolve(multiVariantProduct(), map[string]string{
		"Size":   "Large",
		"Flavor": "Mango",
	})
	require.NoError(t, err)
	assert.Equal(t, "v-large-mango", id)
}

func TestPartialSelectionMatchesSuperset(t *testing.T) {
	id, err := Resolve(multiVariantProduct(), map[string]string{"Flavor": "Mango"})
	require.NoError(t, err)
	assert.Equal(t, "v-large-mango", id)
}

func TestNoMatchFallsBackToFirst(t *testing.T) {
	id, err := Resolve(multiVariantProduct(), map[string]string{"Size": "Gigantic"})
	require.NoError(t, err)
	assert.Equal(t, "v-small-strawberry", id)
}

func TestUnavailableVariantStillResolves(t *testing.T) {
	id, err := Resolve(multiVariantProduct(), map[string]string{
		"Size":   "Large",
		"Flavor": "Strawberry",
	})
	require.NoError(t, err)
	assert.Equal(t, "v-large-strawberry", id)
}

func TestNoVariantsIsError(t *testing.T) {
	_, err := Resolve(models.Product{ID: "p"}, nil)
	assert.Error(t, err)
}

func TestOptionAvailability(t *testing.T) {
	p := multiVariantProduct()

	// "Large" is carried by an unavailable strawberry variant and an
	// available mango variant: one available carrier is enough.
	assert.True(t, OptionAvailable(p, "Size", "Large"))
	assert.True(t, OptionAvailable(p, "Flavor", "Mango"))
	assert.False(t, OptionAvailable(p, "Size", "Gigantic"))

	p.Variants[2].Available = false
	assert.False(t, OptionAvailable(p, "Flavor", "Mango"))
}
