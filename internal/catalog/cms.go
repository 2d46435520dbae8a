package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// cmsProduct mirrors the CMS record shape loosely: fields that vary between
// plain values and nested wrappers stay raw and are unwrapped defensively.
type cmsProduct struct {
	ID                  json.RawMessage `json:"id"`
	Name                string          `json:"name"`
	Slug                json.RawMessage `json:"slug"`
	Price               json.RawMessage `json:"price"`
	PriceOverrides      json.RawMessage `json:"priceOverrides"`
	Stock               int             `json:"stock"`
	Weight              json.RawMessage `json:"weight"`
	Ingredients         json.RawMessage `json:"ingredients"`
	NutritionalInfo     json.RawMessage `json:"nutritionalInfo"`
	Description         json.RawMessage `json:"description"`
	TastingNotes        json.RawMessage `json:"tastingNotes"`
	StorageInstructions json.RawMessage `json:"storageInstructions"`
	Featured            bool            `json:"featured"`
	Images              json.RawMessage `json:"images"`
	Categories          json.RawMessage `json:"categories"`
	Category            json.RawMessage `json:"category"`
}

// FromCMS parses a CMS-shaped record. Slugs arrive either as plain strings
// or wrapped as {"current": ...}; categories as strings or wrapped objects;
// images as strings, {"url": ...} or {"asset": {"url": ...}} entries.
func FromCMS(raw json.RawMessage) (models.Product, error) {
	var rec cmsProduct
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.Product{}, fmt.Errorf("malformed cms record: %w", err)
	}

	p := models.Product{
		ID:                  unwrapString(rec.ID, "current"),
		Name:                rec.Name,
		Slug:                unwrapString(rec.Slug, "current"),
		Price:               unwrapDecimal(rec.Price, "amount"),
		PriceOverrides:      parseOverrides(rec.PriceOverrides),
		Stock:               maxInt(rec.Stock, 0),
		Weight:              unwrapString(rec.Weight, "label"),
		Ingredients:         unwrapStrings(rec.Ingredients, "name", "current"),
		Nutrition:           parseNutrition(rec.NutritionalInfo),
		Description:         unwrapString(rec.Description, "text", "current"),
		TastingNotes:        unwrapString(rec.TastingNotes, "text", "current"),
		StorageInstructions: unwrapString(rec.StorageInstructions, "text", "current"),
		Featured:            rec.Featured,
		Images:              fallbackImages(unwrapStrings(rec.Images, "url", "asset")),
	}

	// Category may arrive singular or as a wrapped list; only the first is
	// used, and only for display theming.
	if cats := unwrapStrings(rec.Categories, "title", "name", "current"); len(cats) > 0 {
		p.Category = cats[0]
	} else {
		p.Category = unwrapString(rec.Category, "title", "name", "current")
	}

	return p, nil
}

// parseOverrides decodes a currency→price map, dropping unsupported codes
// and unparsable values.
func parseOverrides(raw json.RawMessage) map[models.Currency]decimal.Decimal {
	if len(raw) == 0 {
		return nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}

	out := make(map[models.Currency]decimal.Decimal, len(m))
	for code, v := range m {
		cur := models.Currency(code)
		if !cur.Valid() {
			continue
		}
		if d := unwrapDecimal(v, "amount"); !d.IsZero() {
			out[cur] = d
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseNutrition decodes the optional nutrition record, tolerating numeric
// strings.
func parseNutrition(raw json.RawMessage) *models.NutritionalInfo {
	if len(raw) == 0 {
		return nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return nil
	}

	n := &models.NutritionalInfo{
		Calories: unwrapDecimal(m["calories"]).InexactFloat64(),
		Fat:      unwrapDecimal(m["fat"]).InexactFloat64(),
		Carbs:    unwrapDecimal(m["carbs"]).InexactFloat64(),
		Protein:  unwrapDecimal(m["protein"]).InexactFloat64(),
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
