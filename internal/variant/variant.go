// Package variant maps user-selected option values to a purchasable Shopify
// variant id.
package variant

import (
	"fmt"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// Resolve returns the variant id matching the selected (option name, value)
// pairs. A single-variant product or an empty selection resolves to the
// first variant. When no variant carries every selected pair, the first
// variant's id is the safe default rather than an error. Availability is not
// checked here; Resolve will return an unavailable variant if that is what
// the selection names.
func Resolve(product models.Product, selected map[string]string) (string, error) {
	if len(product.Variants) == 0 {
		return "", fmt.Errorf("product %s has no variants", product.ID)
	}

	if len(product.Variants) == 1 || len(selected) == 0 {
		return product.Variants[0].ID, nil
	}

	for _, v := range product.Variants {
		if matchesSelection(v, selected) {
			return v.ID, nil
		}
	}

	return product.Variants[0].ID, nil
}

// OptionAvailable reports whether any variant carrying the (name, value)
// pair is available for sale. Display hint only: it does not constrain
// Resolve.
func OptionAvailable(product models.Product, name, value string) bool {
	for _, v := range product.Variants {
		if !v.Available {
			continue
		}
		for _, opt := range v.SelectedOptions {
			if opt.Name == name && opt.Value == value {
				return true
			}
		}
	}
	return false
}

// matchesSelection reports whether every selected pair is present on the
// candidate variant.
func matchesSelection(v models.Variant, selected map[string]string) bool {
	for name, value := range selected {
		found := false
		for _, opt := range v.SelectedOptions {
			if opt.Name == name && opt.Value == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
