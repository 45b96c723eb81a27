package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

var SortKeys = []SortKey{SortRelevance, SortName, SortPriceLow, SortPriceHigh}

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

// newCollator orders strings the way a browser's localeCompare does with
// the default locale. A Collator is not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// Sort orders products in place. It is stable, so equal keys keep their
// catalog order. Names and brands are lower-cased, then collated.
func Sort(products []models.Product, key SortKey) {
	var fn func(a, b models.Product) int
	col := newCollator()

	switch key {
	case SortName:
		fn = func(a, b models.Product) int {
			return col.CompareString(strings.ToLower(a.Model), strings.ToLower(b.Model))
		}
	case SortPriceLow:
		fn = func(a, b models.Product) int { return cmp.Compare(a.LowestPrice(), b.LowestPrice()) }
	case SortPriceHigh:
		fn = func(a, b models.Product) int { return cmp.Compare(b.LowestPrice(), a.LowestPrice()) }
	case SortRelevance:
		fn = func(a, b models.Product) int {
			if c := col.CompareString(strings.ToLower(a.Brand), strings.ToLower(b.Brand)); c != 0 {
				return c
			}
			return cmp.Compare(a.LowestPrice(), b.LowestPrice())
		}
	default:
		return
	}

	slices.SortStableFunc(products, fn)
}
