package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is a supported display currency. The set is closed at the API
// boundary; handlers reject anything that fails Valid().
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
	CurrencyGBP Currency = "GBP"
	CurrencyEUR Currency = "EUR"
)

// Currencies lists every supported currency.
var Currencies = []Currency{CurrencyUSD, CurrencyINR, CurrencyGBP, CurrencyEUR}

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	for _, cur := range Currencies {
		if c == cur {
			return true
		}
	}
	return false
}

// DefaultCurrency is used when a session has no stored preference.
const DefaultCurrency = CurrencyUSD

// NutritionalInfo carries the per-serving nutrition facts for a product.
type NutritionalInfo struct {
	Calories float64 `json:"calories"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
}

// SelectedOption is one (name, value) pair on a purchasable variant.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a specific purchasable SKU of a product, distinguished by its
// option values.
type Variant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SKU             string           `json:"sku,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	CompareAtPrice  *decimal.Decimal `json:"compare_at_price,omitempty"`
	Available       bool             `json:"available"`
	Weight          string           `json:"weight,omitempty"`
	SelectedOptions []SelectedOption `json:"selected_options,omitempty"`
}

// Product is the canonical catalog entity produced by the normalizer.
// Instances are immutable within a session; catalog reloads replace the
// whole set.
type Product struct {
	ID                  string                       `json:"id"`
	Name                string                       `json:"name"`
	Slug                string                       `json:"slug"`
	Price               decimal.Decimal              `json:"price"`
	PriceOverrides      map[Currency]decimal.Decimal `json:"price_overrides,omitempty"`
	Stock               int                          `json:"stock"`
	Weight              string                       `json:"weight"`
	Ingredients         []string                     `json:"ingredients"`
	Nutrition           *NutritionalInfo             `json:"nutrition,omitempty"`
	Description         string                       `json:"description"`
	TastingNotes        string                       `json:"tasting_notes"`
	StorageInstructions string                       `json:"storage_instructions"`
	Featured            bool                         `json:"featured"`
	Images              []string                     `json:"images"`
	Category            string                       `json:"category"`
	Variants            []Variant                    `json:"variants,omitempty"`
}

// CartLine is one product entry in a cart. It holds a denormalized snapshot
// of the product (name, image, price, slug) captured at add time, so later
// catalog reloads cannot change what the customer already agreed to pay.
type CartLine struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Amount    int             `json:"amount"`
}

// Cart is the aggregate of a session's line items. TotalItems and
// TotalAmount are derived: they are recomputed from Lines after every
// mutation and never mutated independently.
type Cart struct {
	Lines       []CartLine      `json:"lines"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SortKey selects a catalog ordering.
type SortKey string

const (
	SortPriceLowest  SortKey = "price-lowest"
	SortPriceHighest SortKey = "price-highest"
	SortNameA        SortKey = "name-a"
	SortNameZ        SortKey = "name-z"
)

// Valid reports whether k is a recognized sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortPriceLowest, SortPriceHighest, SortNameA, SortNameZ:
		return true
	}
	return false
}

// Order is the snapshot persisted when a checkout completes.
type Order struct {
	ID          int64           `db:"id" json:"id"`
	SessionID   string          `db:"session_id" json:"session_id"`
	Currency    string          `db:"currency" json:"currency"`
	TotalItems  int             `db:"total_items" json:"total_items"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// OrderItem is one line of a persisted order.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	VariantID string          `db:"variant_id" json:"variant_id,omitempty"`
	Name      string          `db:"name" json:"name"`
	Slug      string          `db:"slug" json:"slug"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount    int             `db:"amount" json:"amount"`
}
