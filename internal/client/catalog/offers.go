package catalog

import (
	"cmp"
	"slices"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

// RankedOffer is an offer annotated for display.
type RankedOffer struct {
	models.Offer
	Best    bool
	Savings float64
}

// HasPrice reports whether the offer carries a usable price.
func (o RankedOffer) HasPrice() bool { return o.Price > 0 }

// RankOffers sorts offers by ascending price (missing prices count as 0) and
// tags the ones at the lowest usable price. Savings are set when the original
// price is above the current one.
func RankOffers(offers []models.Offer) []RankedOffer {
	lowest := models.Product{Offers: offers}.LowestPrice()

	out := make([]RankedOffer, 0, len(offers))
	for _, o := range offers {
		r := RankedOffer{Offer: o}
		if o.Price > 0 && float64(o.Price) == lowest {
			r.Best = true
		}
		if o.Price > 0 && o.OriginalPrice > o.Price {
			r.Savings = float64(o.OriginalPrice - o.Price)
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b RankedOffer) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return out
}
