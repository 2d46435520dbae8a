package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

func testResolver() *Resolver {
	return NewResolver(map[models.Currency]float64{
		models.CurrencyUSD: 0.10,
		models.CurrencyINR: 0.05,
		models.CurrencyGBP: 0.08,
		// EUR deliberately has no configured rate.
	})
}

func TestFormatGolden(t *testing.T) {
	cases := []struct {
		amount   string
		currency models.Currency
		want     string
	}{
		{"199", models.CurrencyUSD, "$199.00"},
		{"1234.56", models.CurrencyUSD, "$1,234.56"},
		{"1234567.8", models.CurrencyUSD, "$1,234,567.80"},
		{"1234.56", models.CurrencyGBP, "£1,234.56"},
		{"1234.56", models.CurrencyEUR, "1.234,56 €"},
		{"199", models.CurrencyEUR, "199,00 €"},
		{"123456", models.CurrencyINR, "₹1,23,456.00"},
		{"1234567.89", models.CurrencyINR, "₹12,34,567.89"},
		{"999", models.CurrencyINR, "₹999.00"},
		{"12345678", models.CurrencyINR, "₹1,23,45,678.00"},
		{"-1234.5", models.CurrencyUSD, "-$1,234.50"},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)

		got, err := Format(amount, tc.currency)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "amount=%s currency=%s", tc.amount, tc.currency)
	}
}

func TestFormatRejectsUnknownCurrency(t *testing.T) {
	_, err := Format(decimal.NewFromInt(1), models.Currency("XYZ"))
	assert.Error(t, err)
}

func TestResolveAppliesDiscountRate(t *testing.T) {
	d, err := testResolver().Resolve(decimal.NewFromInt(199), models.CurrencyUSD, nil)
	require.NoError(t, err)

	assert.Equal(t, "$199.00", d.OriginalPrice)
	assert.Equal(t, "$179.10", d.DiscountedPrice)
}

func TestResolveNoRateMeansNoDiscount(t *testing.T) {
	d, err := testResolver().Resolve(decimal.NewFromInt(199), models.CurrencyEUR, nil)
	require.NoError(t, err)

	assert.Equal(t, d.OriginalPrice, d.DiscountedPrice)
	assert.Equal(t, "199,00 €", d.OriginalPrice)
}

func TestOverrideBeatsDiscount(t *testing.T) {
	overrides := map[models.Currency]decimal.Decimal{
		models.CurrencyINR: decimal.NewFromInt(14999),
	}

	d, err := testResolver().Resolve(decimal.NewFromInt(199), models.CurrencyINR, overrides)
	require.NoError(t, err)

	// The INR override replaces the USD base entirely: no computed discount.
	assert.Equal(t, "₹14,999.00", d.OriginalPrice)
	assert.Equal(t, "₹14,999.00", d.DiscountedPrice)
}

func TestOverrideOnlyAffectsItsCurrency(t *testing.T) {
	overrides := map[models.Currency]decimal.Decimal{
		models.CurrencyINR: decimal.NewFromInt(14999),
	}

	d, err := testResolver().Resolve(decimal.NewFromInt(199), models.CurrencyUSD, overrides)
	require.NoError(t, err)

	assert.Equal(t, "$199.00", d.OriginalPrice)
	assert.Equal(t, "$179.10", d.DiscountedPrice)
}

func TestResolveRejectsUnknownCurrency(t *testing.T) {
	_, err := testResolver().Resolve(decimal.NewFromInt(1), models.Currency("JPY"), nil)
	assert.Error(t, err)
}
