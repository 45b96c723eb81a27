package catalog

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

const ReportFilename = "smartphone-comparison.txt"

// Report renders the plain-text comparison export. It needs at least two
// products.
func Report(products []models.Product) (string, error) {
	if len(products) < 2 {
		return "", ErrNotEnoughProducts
	}

	var b strings.Builder
	b.WriteString("SMARTPHONE COMPARISON REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, p := range products {
		fmt.Fprintf(&b, "PRODUCT %d: %s %s\n", i+1, p.Brand, p.DisplayName())
		b.WriteString(strings.Repeat("-", 30) + "\n")
		fmt.Fprintf(&b, "Price: %s\n\n", models.FormatRand(p.LowestPrice()))

		b.WriteString("Key Specifications:\n")
		for _, s := range KeySpecs(p.Specs) {
			fmt.Fprintf(&b, "  • %s: %s\n", s.Label, s.Value)
		}
		b.WriteString("\n")

		if offers := RankOffers(p.Offers); len(offers) > 0 {
			b.WriteString("Offers:\n")
			for _, o := range offers {
				price := "Price not available"
				if o.HasPrice() {
					price = models.FormatRand(float64(o.Price))
				}
				line := fmt.Sprintf("  • %s: %s", o.Retailer, price)
				if o.Best {
					line += " (Best Price)"
				}
				b.WriteString(line + "\n")
			}
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

// ShareText is the one-line summary used when sharing a comparison.
func ShareText(products []models.Product) (string, error) {
	if len(products) < 2 {
		return "", ErrNotEnoughProducts
	}
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, strings.TrimSpace(p.Brand+" "+p.DisplayName()))
	}
	return "Check out this smartphone comparison: " + strings.Join(names, " vs "), nil
}
