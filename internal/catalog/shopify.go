package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// Tag conventions on Shopify products.
const (
	ingredientTagPrefix = "ingredient:"
	featuredTag         = "featured"
)

// Metafield keys recognized by the normalizer.
const (
	metafieldIngredients    = "ingredients"
	metafieldNutrition      = "nutrition"
	metafieldPriceOverrides = "price_overrides"
	metafieldTastingNotes   = "tasting_notes"
	metafieldStorage        = "storage_instructions"
)

// ShopifyMetafield is one namespaced key/value extension field.
type ShopifyMetafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// ShopifyMoney is an amount/currency pair as the Storefront API returns it.
type ShopifyMoney struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// ShopifyImage is one product image node.
type ShopifyImage struct {
	URL string `json:"url"`
	Src string `json:"src"`
}

// ShopifyVariantRecord is one variant node.
type ShopifyVariantRecord struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	SKU              string                  `json:"sku"`
	Price            ShopifyMoney            `json:"price"`
	CompareAtPrice   *ShopifyMoney           `json:"compareAtPrice"`
	AvailableForSale bool                    `json:"availableForSale"`
	Weight           float64                 `json:"weight"`
	WeightUnit       string                  `json:"weightUnit"`
	SelectedOptions  []models.SelectedOption `json:"selectedOptions"`
}

// ShopifyProductRecord is the raw Shopify product shape. List-typed fields
// accept both flat arrays and GraphQL connection wrappers.
type ShopifyProductRecord struct {
	ID             string                             `json:"id"`
	Title          string                             `json:"title"`
	Handle         string                             `json:"handle"`
	Vendor         string                             `json:"vendor"`
	ProductType    string                             `json:"productType"`
	Description    string                             `json:"description"`
	TotalInventory int                                `json:"totalInventory"`
	Tags           []string                         `json:"tags"`
	PriceRange     ShopifyPriceRange                `json:"priceRange"`
	Images         connection[ShopifyImage]         `json:"images"`
	Variants       connection[ShopifyVariantRecord] `json:"variants"`
	Metafields     []ShopifyMetafield               `json:"metafields"`
}

// ShopifyPriceRange carries the product-level price range.
type ShopifyPriceRange struct {
	MinVariantPrice ShopifyMoney `json:"minVariantPrice"`
}

// connection accepts either a flat JSON array or the GraphQL
// {"edges": [{"node": ...}]} wrapper.
type connection[T any] struct {
	Nodes []T
}

func (c *connection[T]) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &c.Nodes); err == nil {
		return nil
	}

	var wrapped struct {
		Edges []struct {
			Node T `json:"node"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	c.Nodes = make([]T, len(wrapped.Edges))
	for i, e := range wrapped.Edges {
		c.Nodes[i] = e.Node
	}
	return nil
}

// FromShopify parses a Shopify-shaped raw record.
func FromShopify(raw json.RawMessage) (models.Product, error) {
	var rec ShopifyProductRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Product{}, fmt.Errorf("malformed shopify record: %w", err)
	}
	return FromShopifyRecord(rec), nil
}

// FromShopifyRecord converts an already-decoded Shopify record. Metafield
// payloads win over tag-derived fallbacks, but malformed metafield JSON
// silently degrades to the fallback rather than failing the product.
func FromShopifyRecord(rec ShopifyProductRecord) models.Product {
	p := models.Product{
		ID:          rec.ID,
		Name:        rec.Title,
		Slug:        rec.Handle,
		Description: rec.Description,
		Category:    rec.ProductType,
		Stock:       maxInt(rec.TotalInventory, 0),
	}

	p.Price = rec.PriceRange.MinVariantPrice.Amount
	if p.Price.IsZero() && len(rec.Variants.Nodes) > 0 {
		p.Price = rec.Variants.Nodes[0].Price.Amount
	}

	for _, v := range rec.Variants.Nodes {
		variant := models.Variant{
			ID:              v.ID,
			Title:           v.Title,
			SKU:             v.SKU,
			Price:           v.Price.Amount,
			Available:       v.AvailableForSale,
			SelectedOptions: v.SelectedOptions,
		}
		if v.CompareAtPrice != nil {
			compareAt := v.CompareAtPrice.Amount
			variant.CompareAtPrice = &compareAt
		}
		if v.Weight > 0 {
			variant.Weight = strings.TrimRight(strings.TrimRight(
				decimal.NewFromFloat(v.Weight).StringFixed(2), "0"), ".") + strings.ToLower(v.WeightUnit)
		}
		p.Variants = append(p.Variants, variant)
	}
	if len(p.Variants) > 0 {
		p.Weight = p.Variants[0].Weight
	}

	images := make([]string, 0, len(rec.Images.Nodes))
	for _, img := range rec.Images.Nodes {
		if img.URL != "" {
			images = append(images, img.URL)
		} else if img.Src != "" {
			images = append(images, img.Src)
		}
	}
	p.Images = fallbackImages(images)

	p.Ingredients = shopifyIngredients(rec)
	p.Nutrition = shopifyNutrition(rec)
	p.PriceOverrides = shopifyOverrides(rec)
	p.TastingNotes = metafieldValue(rec.Metafields, metafieldTastingNotes)
	p.StorageInstructions = metafieldValue(rec.Metafields, metafieldStorage)
	p.Featured = hasTag(rec.Tags, featuredTag)

	return p
}

// shopifyIngredients prefers the JSON-encoded metafield, falling back to
// "ingredient:"-prefixed tags with the prefix stripped.
func shopifyIngredients(rec ShopifyProductRecord) []string {
	if raw := metafieldValue(rec.Metafields, metafieldIngredients); raw != "" {
		var ingredients []string
		if err := json.Unmarshal([]byte(raw), &ingredients); err == nil && len(ingredients) > 0 {
			return ingredients
		}
	}

	var ingredients []string
	for _, tag := range rec.Tags {
		if strings.HasPrefix(tag, ingredientTagPrefix) {
			if name := strings.TrimPrefix(tag, ingredientTagPrefix); name != "" {
				ingredients = append(ingredients, name)
			}
		}
	}
	return ingredients
}

// shopifyNutrition prefers the JSON metafield, falling back to the four
// individual numeric metafields.
func shopifyNutrition(rec ShopifyProductRecord) *models.NutritionalInfo {
	if raw := metafieldValue(rec.Metafields, metafieldNutrition); raw != "" {
		var n models.NutritionalInfo
		if err := json.Unmarshal([]byte(raw), &n); err == nil {
			return &n
		}
	}

	fields := map[string]decimal.Decimal{}
	for _, key := range []string{"calories", "fat", "carbs", "protein"} {
		raw := metafieldValue(rec.Metafields, key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		fields[key] = d
	}
	if len(fields) == 0 {
		return nil
	}
	return &models.NutritionalInfo{
		Calories: fields["calories"].InexactFloat64(),
		Fat:      fields["fat"].InexactFloat64(),
		Carbs:    fields["carbs"].InexactFloat64(),
		Protein:  fields["protein"].InexactFloat64(),
	}
}

func shopifyOverrides(rec ShopifyProductRecord) map[models.Currency]decimal.Decimal {
	raw := metafieldValue(rec.Metafields, metafieldPriceOverrides)
	if raw == "" {
		return nil
	}
	return parseOverrides(json.RawMessage(raw))
}

func metafieldValue(fields []ShopifyMetafield, key string) string {
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
