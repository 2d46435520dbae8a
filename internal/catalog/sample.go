package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// SampleProducts returns the bundled local catalog used when no Shopify
// storefront is configured. Prices are in base currency units.
func SampleProducts() []models.Product {
	return []models.Product{
		{
			ID:    "1",
			Name:  "Freeze-Dried Strawberry",
			Slug:  "freeze-dried-strawberry",
			Price: decimal.NewFromInt(199),
			PriceOverrides: map[models.Currency]decimal.Decimal{
				models.CurrencyINR: decimal.NewFromInt(14999),
			},
			Stock:       120,
			Weight:      "25g",
			Ingredients: []string{"Strawberry"},
			Nutrition: &models.NutritionalInfo{
				Calories: 90, Fat: 0.5, Carbs: 21, Protein: 1.5,
			},
			Description:         "Whole strawberries, freeze-dried at peak ripeness.",
			TastingNotes:        "Bright, sweet-tart, melts on the tongue.",
			StorageInstructions: "Keep sealed in a cool, dry place.",
			Featured:            true,
			Images:              []string{"/images/products/strawberry-1.jpg", "/images/products/strawberry-2.jpg"},
			Category:            "berries",
		},
		{
			ID:          "2",
			Name:        "Freeze-Dried Mango",
			Slug:        "freeze-dried-mango",
			Price:       decimal.NewFromInt(249),
			Stock:       85,
			Weight:      "30g",
			Ingredients: []string{"Mango"},
			Nutrition: &models.NutritionalInfo{
				Calories: 110, Fat: 0.4, Carbs: 26, Protein: 1.0,
			},
			Description:         "Alphonso mango slices with nothing added.",
			TastingNotes:        "Honeyed, tropical, a gentle crunch.",
			StorageInstructions: "Keep sealed in a cool, dry place.",
			Featured:            true,
			Images:              []string{"/images/products/mango-1.jpg"},
			Category:            "tropical",
		},
		{
			ID:          "3",
			Name:        "Freeze-Dried Banana",
			Slug:        "freeze-dried-banana",
			Price:       decimal.NewFromInt(149),
			Stock:       200,
			Weight:      "28g",
			Ingredients: []string{"Banana"},
			Nutrition: &models.NutritionalInfo{
				Calories: 100, Fat: 0.3, Carbs: 25, Protein: 1.2,
			},
			Description:         "Banana coins, crisped in the freeze dryer.",
			TastingNotes:        "Mellow and creamy with a crisp snap.",
			StorageInstructions: "Keep sealed in a cool, dry place.",
			Images:              []string{"/images/products/banana-1.jpg"},
			Category:            "tropical",
		},
		{
			ID:          "4",
			Name:        "Freeze-Dried Pineapple",
			Slug:        "freeze-dried-pineapple",
			Price:       decimal.NewFromInt(229),
			Stock:       64,
			Weight:      "30g",
			Ingredients: []string{"Pineapple"},
			Nutrition: &models.NutritionalInfo{
				Calories: 105, Fat: 0.2, Carbs: 27, Protein: 0.8,
			},
			Description:         "Golden pineapple rings, tangy and crisp.",
			TastingNotes:        "Zingy acidity balanced by caramel sweetness.",
			StorageInstructions: "Keep sealed in a cool, dry place.",
			Images:              []string{"/images/products/pineapple-1.jpg"},
			Category:            "tropical",
		},
	}
}
