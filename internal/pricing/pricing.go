// Package pricing resolves display prices: per-currency overrides beat
// configured discount rates, and formatting follows each currency's
// conventional symbol, decimal, and grouping rules.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// Display holds the formatted price pair shown for a product.
type Display struct {
	OriginalPrice   string `json:"original_price"`
	DiscountedPrice string `json:"discounted_price"`
}

// Resolver applies per-currency discount rates. A currency with no
// configured rate gets no discount: original == discounted.
type Resolver struct {
	rates map[models.Currency]decimal.Decimal
}

// NewResolver builds a resolver from rate fractions (0.10 means 10% off).
func NewResolver(rates map[models.Currency]float64) *Resolver {
	r := &Resolver{rates: make(map[models.Currency]decimal.Decimal, len(rates))}
	for cur, rate := range rates {
		r.rates[cur] = decimal.NewFromFloat(rate)
	}
	return r
}

// Resolve produces the display pair for base in the requested currency.
// An explicit per-currency override replaces the base before formatting and
// suppresses any discount.
func (r *Resolver) Resolve(base decimal.Decimal, cur models.Currency, overrides map[models.Currency]decimal.Decimal) (Display, error) {
	if !cur.Valid() {
		return Display{}, fmt.Errorf("unsupported currency: %s", cur)
	}

	if override, ok := overrides[cur]; ok {
		formatted, err := Format(override, cur)
		if err != nil {
			return Display{}, err
		}
		return Display{OriginalPrice: formatted, DiscountedPrice: formatted}, nil
	}

	original, err := Format(base, cur)
	if err != nil {
		return Display{}, err
	}

	rate, ok := r.rates[cur]
	if !ok || rate.IsZero() {
		return Display{OriginalPrice: original, DiscountedPrice: original}, nil
	}

	discounted, err := Format(base.Mul(decimal.NewFromInt(1).Sub(rate)), cur)
	if err != nil {
		return Display{}, err
	}
	return Display{OriginalPrice: original, DiscountedPrice: discounted}, nil
}

// Rate returns the configured discount rate for cur, zero when absent.
func (r *Resolver) Rate(cur models.Currency) decimal.Decimal {
	return r.rates[cur]
}

// Format renders amount per the currency's conventions:
//
//	USD $1,234.56  GBP £1,234.56  EUR 1.234,56 €  INR ₹1,23,456.00
func Format(amount decimal.Decimal, cur models.Currency) (string, error) {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var s string
	switch cur {
	case models.CurrencyUSD:
		s = "$" + groupThousands(intPart, ",") + "." + fracPart
	case models.CurrencyGBP:
		s = "£" + groupThousands(intPart, ",") + "." + fracPart
	case models.CurrencyEUR:
		s = groupThousands(intPart, ".") + "," + fracPart + " €"
	case models.CurrencyINR:
		s = "₹" + groupIndian(intPart) + "." + fracPart
	default:
		return "", fmt.Errorf("unsupported currency: %s", cur)
	}

	if negative {
		s = "-" + s
	}
	return s, nil
}

// groupThousands inserts sep every three digits from the right.
func groupThousands(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian applies the Indian numbering convention: the last three digits
// form one group, everything before that groups in twos.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head := digits[:n-3]
	tail := digits[n-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
