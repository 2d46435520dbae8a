package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

func product(id, name string, price int64) models.Product {
	return models.Product{ID: id, Name: name, Slug: id, Price: decimal.NewFromInt(price)}
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func prices(products []models.Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.Price.IntPart()
	}
	return out
}

func TestLoadReplacesBothSets(t *testing.T) {
	s := NewStore()
	s.Load([]models.Product{product("1", "Strawberry", 199)})
	s.Load([]models.Product{product("2", "Mango", 249), product("3", "Banana", 149)})

	assert.Len(t, s.All(), 2)
	assert.Len(t, s.Filtered(), 2)
}

func TestLoadDoesNotReapplySort(t *testing.T) {
	s := NewStore()
	s.Load([]models.Product{product("1", "B", 199), product("2", "A", 50)})
	require.NoError(t, s.SetSort(models.SortPriceLowest))

	// A fresh load keeps catalog order until the next explicit sort.
	s.Load([]models.Product{product("1", "B", 199), product("2", "A", 50), product("3", "C", 120)})
	assert.Equal(t, []int64{199, 50, 120}, prices(s.Filtered()))

	require.NoError(t, s.SetSort(models.SortPriceLowest))
	assert.Equal(t, []int64{50, 120, 199}, prices(s.Filtered()))
}

func TestSortPriceLowest(t *testing.T) {
	s := NewStore()
	s.Load([]models.Product{product("1", "A", 199), product("2", "B", 50), product("3", "C", 120)})

	require.NoError(t, s.SetSort(models.SortPriceLowest))
	assert.Equal(t, []int64{50, 120, 199}, prices(s.Filtered()))

	require.NoError(t, s.SetSort(models.SortPriceHighest))
	assert.Equal(t, []int64{199, 120, 50}, prices(s.Filtered()))
}

func TestSortComposesOnFilteredSet(t *testing.T) {
	s := NewStore()
	s.Load([]models.Product{product("1", "Mango", 199), product("2", "Banana", 50), product("3", "Strawberry", 120)})

	require.NoError(t, s.SetSort(models.SortPriceLowest))
	require.NoError(t, s.SetSort(models.SortNameZ))

	// The second sort reorders the already-sorted working set by name
	// descending, not the original catalog order.
	assert.Equal(t, []string{"Strawberry", "Mango", "Banana"}, names(s.Filtered()))

	require.NoError(t, s.SetSort(models.SortNameA))
	assert.Equal(t, []string{"Banana", "Mango", "Strawberry"}, names(s.Filtered()))
}

func TestSortRejectsUnknownKey(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.SetSort(models.SortKey("newest")))
}

func TestViewToggleLeavesProductsAlone(t *testing.T) {
	s := NewStore()
	s.Load([]models.Product{product("1", "A", 199), product("2", "B", 50)})

	assert.True(t, s.GridView())
	s.SetListView()
	assert.False(t, s.GridView())
	s.SetGridView()
	assert.True(t, s.GridView())

	assert.Equal(t, []int64{199, 50}, prices(s.Filtered()))
}

func TestLookups(t *testing.T) {
	s := NewStore()
	s.Load([]models.Product{product("1", "Strawberry", 199)})

	p, ok := s.BySlug("1")
	require.True(t, ok)
	assert.Equal(t, "Strawberry", p.Name)

	_, ok = s.BySlug("nope")
	assert.False(t, ok)

	_, ok = s.ByID("1")
	assert.True(t, ok)
}
