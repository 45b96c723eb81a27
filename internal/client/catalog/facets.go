package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

// Facet names a filter group with its own Apply/Cancel.
type Facet string

const (
	FacetBrand Facet = "brand"
	FacetOS    Facet = "os"
	FacetPrice Facet = "price"
)

var ErrUnknownFacet = errors.New("unknown filter")

func ParseFacet(s string) (Facet, error) {
	switch f := Facet(strings.ToLower(strings.TrimSpace(s))); f {
	case FacetBrand, FacetOS, FacetPrice:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFacet, s)
}

// PriceBracket is one of the fixed price ranges. The first bracket is
// exclusive at the top ("under R3,000"); the others are inclusive on both
// ends.
type PriceBracket struct {
	Key   string
	Label string
	Min   float64
	Max   float64
	Under bool
}

func (b PriceBracket) Contains(price float64) bool {
	if b.Under {
		return price < b.Max
	}
	return price >= b.Min && price <= b.Max
}

var Brackets = []PriceBracket{
	{Key: "0-3000", Label: "Under R3,000", Min: 0, Max: 3000, Under: true},
	{Key: "3000-6000", Label: "R3,000 - R6,000", Min: 3000, Max: 6000},
	{Key: "6000-10000", Label: "R6,000 - R10,000", Min: 6000, Max: 10000},
	{Key: "10000-20000", Label: "R10,000 - R20,000", Min: 10000, Max: 20000},
	{Key: "20000-999999", Label: "Over R20,000", Min: 20000, Max: 999999},
}

var ErrUnknownBracket = errors.New("unknown price range")

func BracketByKey(key string) (PriceBracket, error) {
	for _, b := range Brackets {
		if b.Key == key {
			return b, nil
		}
	}
	return PriceBracket{}, fmt.Errorf("%w: %q", ErrUnknownBracket, key)
}

type set map[string]struct{}

func (s set) clone() set {
	out := make(set, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s set) toggle(k string) {
	if _, ok := s[k]; ok {
		delete(s, k)
		return
	}
	s[k] = struct{}{}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Filter is one full selection across the three facets. Brand and OS values
// are stored lower-cased. OR within a facet, AND across facets.
type Filter struct {
	brands set
	os     set
	price  string
}

func newFilter() Filter {
	return Filter{brands: set{}, os: set{}}
}

func (f Filter) clone() Filter {
	return Filter{brands: f.brands.clone(), os: f.os.clone(), price: f.price}
}

func (f Filter) Brands() []string { return f.brands.sorted() }
func (f Filter) OS() []string     { return f.os.sorted() }
func (f Filter) Price() string    { return f.price }

func (f Filter) Empty() bool {
	return len(f.brands) == 0 && len(f.os) == 0 && f.price == ""
}

func (f Filter) Match(p models.Product) bool {
	if len(f.brands) > 0 {
		if p.Brand == "" {
			return false
		}
		if _, ok := f.brands[strings.ToLower(p.Brand)]; !ok {
			return false
		}
	}

	if len(f.os) > 0 {
		osName, ok := p.OperatingSystem()
		if !ok || osName == "" {
			return false
		}
		osName = strings.ToLower(osName)
		hit := false
		for want := range f.os {
			if strings.Contains(osName, want) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if f.price != "" {
		b, err := BracketByKey(f.price)
		if err == nil && !b.Contains(p.LowestPrice()) {
			return false
		}
	}
	return true
}

// Option is a selectable facet value with the number of products carrying it.
type Option struct {
	Value string
	Label string
	Count int
}

// BrandOptions lists the distinct brands in products.
func BrandOptions(products []models.Product) []Option {
	return collectOptions(products, func(p models.Product) (string, string) {
		return strings.ToLower(p.Brand), p.Brand
	})
}

// OSOptions lists operating system families (first word of the OS spec).
func OSOptions(products []models.Product) []Option {
	return collectOptions(products, func(p models.Product) (string, string) {
		v, ok := p.OperatingSystem()
		if !ok {
			return "", ""
		}
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return "", ""
		}
		return strings.ToLower(fields[0]), fields[0]
	})
}

func collectOptions(products []models.Product, key func(models.Product) (string, string)) []Option {
	idx := map[string]int{}
	var out []Option
	for _, p := range products {
		value, label := key(p)
		if value == "" {
			continue
		}
		if i, ok := idx[value]; ok {
			out[i].Count++
			continue
		}
		idx[value] = len(out)
		out = append(out, Option{Value: value, Label: label, Count: 1})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
