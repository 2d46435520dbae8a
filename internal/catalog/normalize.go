// Package catalog converts heterogeneous upstream product records into the
// canonical models.Product shape. Two source shapes are recognized: CMS-style
// nested records and Shopify-style variant/metafield records. Each shape has
// its own parser; malformed fields degrade to safe defaults and never escape
// as errors.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// PlaceholderImage is substituted whenever a source record yields no usable
// image. Normalized products never have an empty image list.
const PlaceholderImage = "/images/placeholder-fruit.jpg"

// Normalize parses one raw record, selecting the parser by discriminant:
// records carrying a "handle" or "variants" field are Shopify-shaped,
// everything else is treated as CMS-shaped. Only top-level malformed JSON is
// an error; field-level problems degrade to defaults.
func Normalize(raw json.RawMessage) (models.Product, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return models.Product{}, fmt.Errorf("malformed product record: %w", err)
	}

	if _, ok := probe["handle"]; ok {
		return FromShopify(raw)
	}
	if _, ok := probe["variants"]; ok {
		return FromShopify(raw)
	}
	return FromCMS(raw)
}

// NormalizeAll parses a batch, dropping records whose top-level JSON is
// unusable. Partial upstream garbage must not take the whole catalog down.
func NormalizeAll(raws []json.RawMessage) []models.Product {
	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}

// unwrapString resolves a defensively-typed field: a plain JSON string is
// used as-is; an object is probed for the given keys in order; anything else
// yields "".
func unwrapString(raw json.RawMessage, keys ...string) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	for _, key := range keys {
		if inner, ok := obj[key]; ok {
			if v := unwrapString(inner, keys...); v != "" {
				return v
			}
		}
	}
	return ""
}

// unwrapStrings flattens an array-typed field: each element is unwrapped
// like unwrapString and empty results are filtered out.
func unwrapStrings(raw json.RawMessage, keys ...string) []string {
	if len(raw) == 0 {
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		// Not an array after all; treat as a single wrapped value.
		if v := unwrapString(raw, keys...); v != "" {
			return []string{v}
		}
		return nil
	}

	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		if v := unwrapString(elem, keys...); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// unwrapDecimal accepts a JSON number, a numeric string, or a wrapped
// object, falling back to zero.
func unwrapDecimal(raw json.RawMessage, keys ...string) decimal.Decimal {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}

	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err == nil {
		return d
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return decimal.Zero
	}
	for _, key := range keys {
		if inner, ok := obj[key]; ok {
			if v := unwrapDecimal(inner, keys...); !v.IsZero() {
				return v
			}
		}
	}
	return decimal.Zero
}

// fallbackImages guarantees the one-image invariant.
func fallbackImages(images []string) []string {
	if len(images) == 0 {
		return []string{PlaceholderImage}
	}
	return images
}
