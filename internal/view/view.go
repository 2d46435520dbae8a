// Package view maintains the catalog working set: the full product list, a
// filtered+sorted copy used for display, and the grid/list display flag.
package view

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// Store holds the working view of the catalog. All mutations go through one
// mutex, matching the single state-update queue the cart relies on.
type Store struct {
	mu       sync.Mutex
	all      []models.Product
	filtered []models.Product
	gridView bool
	sortKey  models.SortKey
	collator *collate.Collator
}

// NewStore creates an empty view store defaulting to grid display.
func NewStore() *Store {
	return &Store{
		gridView: true,
		collator: collate.New(language.English),
	}
}

// Load replaces both the full catalog and the working set. The active sort
// is deliberately not reapplied here; only an explicit SetSort re-sorts.
func (s *Store) Load(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.all = cloneProducts(products)
	s.filtered = cloneProducts(products)
}

// SetSort updates the active sort key and stably re-sorts the current
// working set. Sorting operates on the filtered copy, not the full catalog,
// so repeated sorts compose against whatever was last displayed.
func (s *Store) SetSort(key models.SortKey) error {
	if !key.Valid() {
		return fmt.Errorf("unrecognized sort key: %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sortKey = key
	s.applySort()
	return nil
}

func (s *Store) applySort() {
	p := s.filtered
	switch s.sortKey {
	case models.SortPriceLowest:
		sort.SliceStable(p, func(i, j int) bool { return p[i].Price.LessThan(p[j].Price) })
	case models.SortPriceHighest:
		sort.SliceStable(p, func(i, j int) bool { return p[j].Price.LessThan(p[i].Price) })
	case models.SortNameA:
		sort.SliceStable(p, func(i, j int) bool { return s.collator.CompareString(p[i].Name, p[j].Name) < 0 })
	case models.SortNameZ:
		sort.SliceStable(p, func(i, j int) bool { return s.collator.CompareString(p[j].Name, p[i].Name) < 0 })
	}
}

// SetGridView switches to grid display. Product data is untouched.
func (s *Store) SetGridView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gridView = true
}

// SetListView switches to list display. Product data is untouched.
func (s *Store) SetListView() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gridView = false
}

// GridView reports the current display mode.
func (s *Store) GridView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gridView
}

// Sort returns the active sort key, empty until SetSort is called.
func (s *Store) Sort() models.SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey
}

// Filtered returns a copy of the working set.
func (s *Store) Filtered() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.filtered)
}

// All returns a copy of the full catalog.
func (s *Store) All() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.all)
}

// BySlug looks a product up in the full catalog by its slug.
func (s *Store) BySlug(slug string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.all {
		if p.Slug == slug {
			return p, true
		}
	}
	return models.Product{}, false
}

// ByID looks a product up in the full catalog by its id.
func (s *Store) ByID(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.all {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func cloneProducts(products []models.Product) []models.Product {
	if len(products) == 0 {
		return nil
	}
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
