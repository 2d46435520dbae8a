package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

func TestCMSWrappedFields(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "1",
		"name": "Freeze-Dried Strawberry",
		"slug": {"current": "freeze-dried-strawberry"},
		"price": 199,
		"stock": 120,
		"weight": "25g",
		"ingredients": [{"name": "Strawberry"}, "Citric Acid", {"name": ""}],
		"nutritionalInfo": {"calories": 90, "fat": "0.5", "carbs": 21, "protein": 1.5},
		"description": {"text": "Whole strawberries."},
		"featured": true,
		"images": [{"url": "/img/a.jpg"}, "/img/b.jpg", {"url": ""}],
		"categories": [{"title": "berries"}]
	}`)

	p, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "freeze-dried-strawberry", p.Slug)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(199)))
	assert.Equal(t, []string{"Strawberry", "Citric Acid"}, p.Ingredients)
	require.NotNil(t, p.Nutrition)
	assert.Equal(t, 0.5, p.Nutrition.Fat)
	assert.Equal(t, "Whole strawberries.", p.Description)
	assert.True(t, p.Featured)
	assert.Equal(t, []string{"/img/a.jpg", "/img/b.jpg"}, p.Images)
	assert.Equal(t, "berries", p.Category)
}

func TestCMSPlainStringFallbacks(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "2",
		"name": "Mango",
		"slug": "freeze-dried-mango",
		"price": "249",
		"category": "tropical"
	}`)

	p, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "freeze-dried-mango", p.Slug)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(249)))
	assert.Equal(t, "tropical", p.Category)
}

func TestCMSMissingEverythingGetsDefaults(t *testing.T) {
	p, err := Normalize(json.RawMessage(`{"id": "9", "name": "Bare"}`))
	require.NoError(t, err)

	assert.Equal(t, "", p.Slug)
	assert.True(t, p.Price.IsZero())
	assert.Empty(t, p.Ingredients)
	assert.Nil(t, p.Nutrition)
	assert.Equal(t, "", p.Description)
	require.Len(t, p.Images, 1, "images must never be empty after normalization")
	assert.Equal(t, PlaceholderImage, p.Images[0])
}

func TestTopLevelGarbageIsAnError(t *testing.T) {
	_, err := Normalize(json.RawMessage(`not json at all`))
	assert.Error(t, err)
}

func shopifyRaw() json.RawMessage {
	return json.RawMessage(`{
		"id": "gid://shopify/Product/7",
		"title": "Freeze-Dried Pineapple",
		"handle": "freeze-dried-pineapple",
		"vendor": "naturburst",
		"productType": "tropical",
		"description": "Golden rings.",
		"totalInventory": 64,
		"tags": ["featured", "ingredient:Pineapple", "summer"],
		"priceRange": {"minVariantPrice": {"amount": "229.0", "currencyCode": "USD"}},
		"images": {"edges": [{"node": {"url": "/img/pineapple.jpg"}}]},
		"variants": {"edges": [
			{"node": {
				"id": "v1", "title": "Small", "sku": "PINE-S",
				"price": {"amount": "229.0", "currencyCode": "USD"},
				"availableForSale": true,
				"weight": 30, "weightUnit": "GRAMS",
				"selectedOptions": [{"name": "Size", "value": "Small"}]
			}},
			{"node": {
				"id": "v2", "title": "Large", "sku": "PINE-L",
				"price": {"amount": "399.0", "currencyCode": "USD"},
				"availableForSale": false,
				"selectedOptions": [{"name": "Size", "value": "Large"}]
			}}
		]},
		"metafields": [
			{"namespace": "custom", "key": "nutrition", "value": "{\"calories\": 105, \"fat\": 0.2, \"carbs\": 27, \"protein\": 0.8}"},
			{"namespace": "custom", "key": "price_overrides", "value": "{\"INR\": 16999}"}
		]
	}`)
}

func TestShopifyRecord(t *testing.T) {
	p, err := Normalize(shopifyRaw())
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Product/7", p.ID)
	assert.Equal(t, "freeze-dried-pineapple", p.Slug)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("229.0")))
	assert.True(t, p.Featured)
	assert.Equal(t, []string{"Pineapple"}, p.Ingredients, "no ingredients metafield: tags win")
	require.NotNil(t, p.Nutrition)
	assert.Equal(t, 105.0, p.Nutrition.Calories)
	require.Len(t, p.Variants, 2)
	assert.True(t, p.Variants[0].Available)
	assert.False(t, p.Variants[1].Available)
	assert.Equal(t, "30grams", p.Variants[0].Weight)
	require.Contains(t, p.PriceOverrides, models.CurrencyINR)
	assert.True(t, p.PriceOverrides[models.CurrencyINR].Equal(decimal.NewFromInt(16999)))
	assert.Equal(t, []string{"/img/pineapple.jpg"}, p.Images)
}

func TestShopifyIngredientsMetafieldWinsOverTags(t *testing.T) {
	rec := ShopifyProductRecord{
		Handle: "x",
		Tags:   []string{"ingredient:Banana"},
		Metafields: []ShopifyMetafield{
			{Namespace: "custom", Key: "ingredients", Value: `["Strawberry", "Mango"]`},
		},
	}
	p := FromShopifyRecord(rec)
	assert.Equal(t, []string{"Strawberry", "Mango"}, p.Ingredients)
}

func TestShopifyMalformedMetafieldDegradesToTags(t *testing.T) {
	rec := ShopifyProductRecord{
		Handle: "x",
		Tags:   []string{"ingredient:Banana", "ingredient:Mango"},
		Metafields: []ShopifyMetafield{
			{Namespace: "custom", Key: "ingredients", Value: `{"oops": broken`},
			{Namespace: "custom", Key: "nutrition", Value: `also broken`},
			{Namespace: "custom", Key: "calories", Value: `100`},
			{Namespace: "custom", Key: "protein", Value: `1.2`},
		},
	}
	p := FromShopifyRecord(rec)

	assert.Equal(t, []string{"Banana", "Mango"}, p.Ingredients)
	require.NotNil(t, p.Nutrition, "nutrition falls back to the numeric metafields")
	assert.Equal(t, 100.0, p.Nutrition.Calories)
	assert.Equal(t, 1.2, p.Nutrition.Protein)
	assert.Zero(t, p.Nutrition.Fat)
}

func TestShopifyFeaturedRequiresLiteralTag(t *testing.T) {
	p := FromShopifyRecord(ShopifyProductRecord{Handle: "x", Tags: []string{"featured-ish", "Featured"}})
	assert.False(t, p.Featured)

	p = FromShopifyRecord(ShopifyProductRecord{Handle: "x", Tags: []string{"featured"}})
	assert.True(t, p.Featured)
}

func TestShopifyNoImagesGetsPlaceholder(t *testing.T) {
	p := FromShopifyRecord(ShopifyProductRecord{Handle: "x"})
	require.Len(t, p.Images, 1)
	assert.Equal(t, PlaceholderImage, p.Images[0])
}

func TestNormalizeAllDropsGarbageRecords(t *testing.T) {
	products := NormalizeAll([]json.RawMessage{
		json.RawMessage(`{"id": "1", "name": "Good"}`),
		json.RawMessage(`broken`),
		shopifyRaw(),
	})
	assert.Len(t, products, 2)
}

func TestSampleCatalogShape(t *testing.T) {
	products := SampleProducts()
	require.Len(t, products, 4)

	assert.Equal(t, "1", products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(199)))

	seen := map[string]bool{}
	for _, p := range products {
		assert.NotEmpty(t, p.Images)
		assert.False(t, seen[p.Slug], "slugs must be unique")
		seen[p.Slug] = true
	}
}
