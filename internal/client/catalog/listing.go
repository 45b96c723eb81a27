package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

// Listing is the category page state. Facet toggles change a pending
// selection only; Apply commits one facet and recomputes the visible result.
type Listing struct {
	all      []models.Product
	filtered []models.Product

	committed Filter
	pending   Filter
	sortKey   SortKey
	pager     Pager
}

func NewListing(products []models.Product, pageSize int) *Listing {
	l := &Listing{
		all:       slices.Clone(products),
		committed: newFilter(),
		pending:   newFilter(),
		sortKey:   SortRelevance,
		pager:     NewPager(pageSize),
	}
	l.refresh()
	return l
}

// refresh re-runs filter and sort over the whole catalog and returns to
// page 1.
func (l *Listing) refresh() {
	out := make([]models.Product, 0, len(l.all))
	for _, p := range l.all {
		if l.committed.Match(p) {
			out = append(out, p)
		}
	}
	Sort(out, l.sortKey)
	l.filtered = out
	l.pager.Reset(len(out))
}

func (l *Listing) ToggleBrand(brand string) {
	if b := strings.ToLower(strings.TrimSpace(brand)); b != "" {
		l.pending.brands.toggle(b)
	}
}

func (l *Listing) ToggleOS(os string) {
	if o := strings.ToLower(strings.TrimSpace(os)); o != "" {
		l.pending.os.toggle(o)
	}
}

// TogglePrice selects a bracket, or clears it when it is already selected.
func (l *Listing) TogglePrice(key string) error {
	if _, err := BracketByKey(key); err != nil {
		return err
	}
	if l.pending.price == key {
		l.pending.price = ""
	} else {
		l.pending.price = key
	}
	return nil
}

// Apply commits the pending selection of one facet.
func (l *Listing) Apply(f Facet) error {
	switch f {
	case FacetBrand:
		l.committed.brands = l.pending.brands.clone()
	case FacetOS:
		l.committed.os = l.pending.os.clone()
	case FacetPrice:
		l.committed.price = l.pending.price
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFacet, f)
	}
	l.refresh()
	return nil
}

// Cancel drops pending changes of one facet. The result set is untouched.
func (l *Listing) Cancel(f Facet) error {
	switch f {
	case FacetBrand:
		l.pending.brands = l.committed.brands.clone()
	case FacetOS:
		l.pending.os = l.committed.os.clone()
	case FacetPrice:
		l.pending.price = l.committed.price
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFacet, f)
	}
	return nil
}

// ClearFilters drops every committed and pending selection.
func (l *Listing) ClearFilters() {
	l.committed = newFilter()
	l.pending = newFilter()
	l.refresh()
}

func (l *Listing) SetSort(k SortKey) {
	l.sortKey = k
	l.refresh()
}

func (l *Listing) SortKey() SortKey  { return l.sortKey }
func (l *Listing) Committed() Filter { return l.committed.clone() }
func (l *Listing) Pending() Filter   { return l.pending.clone() }

func (l *Listing) GoTo(page int) bool { return l.pager.GoTo(page) }
func (l *Listing) Next() bool         { return l.pager.Next() }
func (l *Listing) Prev() bool         { return l.pager.Prev() }
func (l *Listing) Pager() Pager       { return l.pager }

// Visible returns the products on the current page.
func (l *Listing) Visible() []models.Product {
	start, end := l.pager.Bounds()
	return slices.Clone(l.filtered[start:end])
}

// Results is every product passing the committed filter, sorted.
func (l *Listing) Results() []models.Product {
	return slices.Clone(l.filtered)
}

// All is the unfiltered catalog.
func (l *Listing) All() []models.Product {
	return slices.Clone(l.all)
}

// Find looks a product up by id in the unfiltered catalog.
func (l *Listing) Find(id string) (models.Product, bool) {
	return FindProduct(l.all, id)
}

// Summary is the "Showing X to Y of Z products" line.
func (l *Listing) Summary() string {
	total := l.pager.Total()
	if total == 0 {
		return "No products found"
	}
	start, end := l.pager.Bounds()
	return fmt.Sprintf("Showing %d to %d of %d products", start+1, end, total)
}

func FindProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
