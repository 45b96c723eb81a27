package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/comparehub/internal/client/catalog"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

func priceText(p float64) string {
	if p <= 0 {
		return "Price unavailable"
	}
	return models.FormatRand(p)
}

func renderListing(w io.Writer, l *catalog.Listing, alerts map[string]bool) {
	fmt.Fprintf(w, "%s (sorted by %s)\n", l.Summary(), l.SortKey())

	visible := l.Visible()
	if len(visible) == 0 {
		if !l.Committed().Empty() {
			fmt.Fprintln(w, "Try adjusting your filters, or type 'clear'.")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tMODEL\tPRICE\tOFFERS\tALERT")
	for _, p := range visible {
		mark := ""
		if alerts[p.ID] {
			mark = "on"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.DisplayBrand(), p.DisplayName(), priceText(p.LowestPrice()), len(p.Offers), mark)
	}
	_ = tw.Flush()

	renderPager(w, l.Pager())
}

func renderPager(w io.Writer, p catalog.Pager) {
	if p.TotalPages() <= 1 {
		return
	}

	parts := make([]string, 0, catalog.PageWindow+2)
	if p.HasPrev() {
		parts = append(parts, "‹ prev")
	}
	for _, n := range p.Window() {
		if n == p.Page() {
			parts = append(parts, fmt.Sprintf("[%d]", n))
		} else {
			parts = append(parts, fmt.Sprint(n))
		}
	}
	if p.HasNext() {
		parts = append(parts, "next ›")
	}
	fmt.Fprintf(w, "Pages: %s (of %d)\n", strings.Join(parts, " "), p.TotalPages())
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func renderFilters(w io.Writer, l *catalog.Listing) {
	pending := l.Pending()
	brands := toSet(pending.Brands())
	oses := toSet(pending.OS())
	all := l.All()

	fmt.Fprintln(w, "Brand:")
	for _, o := range catalog.BrandOptions(all) {
		fmt.Fprintf(w, "  %s %s (%d)\n", checkbox(brands[o.Value]), o.Label, o.Count)
	}
	fmt.Fprintln(w, "Operating system:")
	for _, o := range catalog.OSOptions(all) {
		fmt.Fprintf(w, "  %s %s (%d)\n", checkbox(oses[o.Value]), o.Label, o.Count)
	}
	fmt.Fprintln(w, "Price:")
	for _, b := range catalog.Brackets {
		fmt.Fprintf(w, "  %s %s  (%s)\n", checkbox(pending.Price() == b.Key), b.Label, b.Key)
	}
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

func renderPending(w io.Writer, f catalog.Filter) {
	price := "any"
	if b, err := catalog.BracketByKey(f.Price()); err == nil {
		price = b.Label
	}
	fmt.Fprintf(w, "Selected: brand=[%s] os=[%s] price=%s\n",
		strings.Join(f.Brands(), ", "), strings.Join(f.OS(), ", "), price)
}

func renderSpecs(w io.Writer, specs models.Specs, indent string) {
	for _, sec := range catalog.Flatten(specs) {
		fmt.Fprintf(w, "%s%s\n", indent, strings.ToUpper(sec.Title))
		for _, r := range sec.Rows {
			renderSpecRow(w, r, indent+"  ")
		}
	}
}

func renderSpecRow(w io.Writer, r catalog.SpecRow, indent string) {
	switch {
	case len(r.Nested) > 0:
		fmt.Fprintf(w, "%s%s:\n", indent, r.Label)
		for _, n := range r.Nested {
			renderSpecRow(w, n, indent+"  ")
		}
	case len(r.Items) > 0:
		fmt.Fprintf(w, "%s%s: %s\n", indent, r.Label, strings.Join(r.Items, ", "))
	default:
		fmt.Fprintf(w, "%s%s: %s\n", indent, r.Label, r.Value)
	}
}

func renderOffers(w io.Writer, offers []models.Offer, indent string) {
	ranked := catalog.RankOffers(offers)
	if len(ranked) == 0 {
		fmt.Fprintf(w, "%sNo offers available\n", indent)
		return
	}
	for _, o := range ranked {
		line := fmt.Sprintf("%s%s  %s", indent, o.Retailer, priceText(float64(o.Price)))
		if o.Savings > 0 {
			line += fmt.Sprintf("  (was %s, save %s)", models.FormatRand(float64(o.OriginalPrice)), models.FormatRand(o.Savings))
		}
		if o.Best {
			line += "  BEST PRICE"
		}
		if o.URL != "" {
			line += "  " + o.URL
		}
		fmt.Fprintln(w, line)
	}
}

func renderProduct(w io.Writer, p models.Product) {
	fmt.Fprintf(w, "%s %s\n", p.DisplayBrand(), p.DisplayName())
	fmt.Fprintf(w, "From %s\n", priceText(p.LowestPrice()))
	if p.ImageURL != "" {
		fmt.Fprintf(w, "Image: %s\n", p.ImageURL)
	}

	if ks := catalog.KeySpecs(p.Specs); len(ks) > 0 {
		fmt.Fprintln(w, "Key specifications:")
		for _, k := range ks {
			fmt.Fprintf(w, "  %s: %s\n", k.Label, k.Value)
		}
	}
	if len(p.Specs) > 0 {
		fmt.Fprintln(w, "Specifications:")
		renderSpecs(w, p.Specs, "  ")
	}
	fmt.Fprintln(w, "Offers:")
	renderOffers(w, p.Offers, "  ")
}

func renderComparison(w io.Writer, c *catalog.Comparison) {
	for i := 0; i < catalog.Slots; i++ {
		p, ok := c.Slot(i)
		if !ok {
			fmt.Fprintf(w, "Slot %d: empty (type 'slot %d' to add a product)\n", i+1, i+1)
			continue
		}
		fmt.Fprintf(w, "Slot %d: %s %s  %s\n", i+1, p.DisplayBrand(), p.DisplayName(), priceText(p.LowestPrice()))
		for _, k := range catalog.KeySpecs(p.Specs) {
			fmt.Fprintf(w, "    %s: %s\n", k.Label, k.Value)
		}
		renderOffers(w, p.Offers, "    ")
	}

	if len(c.Filled()) == catalog.Slots {
		fmt.Fprintln(w, "Type 'report', 'export' or 'share'.")
	}
}

func renderSearchResults(w io.Writer, products []models.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\n", p.ID, p.DisplayBrand(), p.DisplayName(), priceText(p.LowestPrice()))
	}
	_ = tw.Flush()
}

func renderAlerts(w io.Writer, alerts []models.PriceAlert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No price alerts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE WHEN ADDED\tADDED\tSTATUS")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ProductID, a.ProductName, priceText(a.CurrentPrice), a.DateAdded.Format("2006-01-02"), a.Status)
	}
	_ = tw.Flush()
}
