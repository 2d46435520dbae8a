// Package cart implements the shopping-cart state machine. Transitions are a
// closed set of action values applied by Apply; every transition returns a
// fresh Cart with totals recomputed from the line list, so totals can never
// drift from the lines they summarize.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// Snapshot is the denormalized product data captured when a line is first
// added. The cart deliberately does not reference the live catalog.
type Snapshot struct {
	Name  string
	Image string
	Price decimal.Decimal
}

// Action is a cart transition. The set is closed: only the types in this
// package implement it, so Apply's type switch is exhaustive by construction.
type Action interface {
	isAction()
}

// Add appends a new line for ProductID, or increments the amount of the
// existing line. Amount must be >= 1; the handler layer enforces that.
type Add struct {
	ProductID string
	VariantID string
	Slug      string
	Amount    int
	Snapshot  Snapshot
}

// Remove deletes the line for ProductID entirely. No-op if absent.
type Remove struct {
	ProductID string
}

// Increment adds one to the line's amount. No-op if the line is absent.
type Increment struct {
	ProductID string
}

// Decrement subtracts one from the line's amount, flooring at 1. It never
// removes the line; Remove is the only transition that does.
type Decrement struct {
	ProductID string
}

// Clear empties the cart.
type Clear struct{}

func (Add) isAction()       {}
func (Remove) isAction()    {}
func (Increment) isAction() {}
func (Decrement) isAction() {}
func (Clear) isAction()     {}

// Apply runs one transition against prior and returns the next cart state.
// prior is not mutated. Line order is preserved for display stability.
func Apply(prior models.Cart, action Action) models.Cart {
	next := models.Cart{Lines: cloneLines(prior.Lines)}

	switch a := action.(type) {
	case Add:
		if i := lineIndex(next.Lines, a.ProductID); i >= 0 {
			next.Lines[i].Amount += a.Amount
		} else {
			next.Lines = append(next.Lines, models.CartLine{
				ProductID: a.ProductID,
				VariantID: a.VariantID,
				Slug:      a.Slug,
				Name:      a.Snapshot.Name,
				Image:     a.Snapshot.Image,
				Price:     a.Snapshot.Price,
				Amount:    a.Amount,
			})
		}
	case Remove:
		if i := lineIndex(next.Lines, a.ProductID); i >= 0 {
			next.Lines = append(next.Lines[:i], next.Lines[i+1:]...)
		}
	case Increment:
		if i := lineIndex(next.Lines, a.ProductID); i >= 0 {
			next.Lines[i].Amount++
		}
	case Decrement:
		if i := lineIndex(next.Lines, a.ProductID); i >= 0 && next.Lines[i].Amount > 1 {
			next.Lines[i].Amount--
		}
	case Clear:
		next.Lines = nil
	}

	return Recompute(next)
}

// Recompute rebuilds the derived totals from the line list. It is the single
// source of truth for TotalItems and TotalAmount.
func Recompute(c models.Cart) models.Cart {
	c.TotalItems = 0
	c.TotalAmount = decimal.Zero
	for _, line := range c.Lines {
		c.TotalItems += line.Amount
		c.TotalAmount = c.TotalAmount.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Amount))))
	}
	return c
}

func lineIndex(lines []models.CartLine, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
