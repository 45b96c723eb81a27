package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/catalog"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

var errNoListing = errors.New("no products loaded, type 'list' first")

// List loads a category (the configured one by default) and prints the
// first page. Without arguments an already loaded listing is reprinted.
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) > 0 || a.listing == nil {
		category := a.config.Category
		if len(args) > 0 {
			category = args[0]
		}

		fmt.Fprintln(a.out, "Loading products...")
		l, err := a.catalogService.Listing(ctx, category)
		if err != nil {
			return err
		}
		a.listing = l
	}

	return a.printListing(ctx)
}

func (a *App) printListing(ctx context.Context) error {
	alerts, err := a.activeAlerts(ctx)
	if err != nil {
		return err
	}
	renderListing(a.out, a.listing, alerts)
	return nil
}

func (a *App) activeAlerts(ctx context.Context) (map[string]bool, error) {
	list, err := a.alertService.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(list))
	for _, al := range list {
		out[al.ProductID] = true
	}
	return out, nil
}

func (a *App) requireListing() error {
	if a.listing == nil {
		return errNoListing
	}
	return nil
}

// Page moves through the result pages. Out of range pages are ignored.
func (a *App) Page(ctx context.Context, args []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("page <n|next|prev>")
	}

	switch args[0] {
	case "next", "n":
		a.listing.Next()
	case "prev", "p":
		a.listing.Prev()
	default:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return usage("page <n|next|prev>")
		}
		a.listing.GoTo(n)
	}
	return a.printListing(ctx)
}

func (a *App) Sort(ctx context.Context, args []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("sort <relevance|name|price-low|price-high>")
	}
	k, err := catalog.ParseSortKey(args[0])
	if err != nil {
		return err
	}
	a.listing.SetSort(k)
	return a.printListing(ctx)
}

// Filters prints every facet's options, marking pending selections.
func (a *App) Filters(_ context.Context, _ []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	renderFilters(a.out, a.listing)
	return nil
}

// Filter toggles a pending facet value. Nothing changes until apply.
func (a *App) Filter(_ context.Context, args []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	if len(args) < 2 {
		return usage("filter <brand|os|price> <value>")
	}
	f, err := catalog.ParseFacet(args[0])
	if err != nil {
		return err
	}
	value := strings.Join(args[1:], " ")

	switch f {
	case catalog.FacetBrand:
		a.listing.ToggleBrand(value)
	case catalog.FacetOS:
		a.listing.ToggleOS(value)
	case catalog.FacetPrice:
		if err := a.listing.TogglePrice(value); err != nil {
			return err
		}
	}

	renderPending(a.out, a.listing.Pending())
	fmt.Fprintf(a.out, "Type 'apply %s' to update the results.\n", f)
	return nil
}

func (a *App) Apply(ctx context.Context, args []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("apply <brand|os|price>")
	}
	f, err := catalog.ParseFacet(args[0])
	if err != nil {
		return err
	}
	if err := a.listing.Apply(f); err != nil {
		return err
	}
	return a.printListing(ctx)
}

func (a *App) Cancel(_ context.Context, args []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usage("cancel <brand|os|price>")
	}
	f, err := catalog.ParseFacet(args[0])
	if err != nil {
		return err
	}
	if err := a.listing.Cancel(f); err != nil {
		return err
	}
	renderPending(a.out, a.listing.Pending())
	return nil
}

func (a *App) Clear(ctx context.Context, _ []string) error {
	if err := a.requireListing(); err != nil {
		return err
	}
	a.listing.ClearFilters()
	return a.printListing(ctx)
}

func (a *App) findProduct(id string) (models.Product, error) {
	if err := a.requireListing(); err != nil {
		return models.Product{}, err
	}
	p, ok := a.listing.Find(id)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", catalog.ErrProductNotFound, id)
	}
	return p, nil
}

func (a *App) Show(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	p, err := a.findProduct(args[0])
	if err != nil {
		return err
	}
	renderProduct(a.out, p)
	return nil
}

// Alert toggles the price alert of a product.
func (a *App) Alert(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("alert <id>")
	}
	p, err := a.findProduct(args[0])
	if err != nil {
		return err
	}

	active, err := a.alertService.Toggle(ctx, p)
	if err != nil {
		return err
	}
	if active {
		fmt.Fprintf(a.out, "Price alert set for %s (current price %s)\n", p.DisplayName(), models.FormatRand(p.LowestPrice()))
	} else {
		fmt.Fprintf(a.out, "Price alert removed for %s\n", p.DisplayName())
	}
	return nil
}

func (a *App) Alerts(ctx context.Context, _ []string) error {
	list, err := a.alertService.List(ctx)
	if err != nil {
		return err
	}
	renderAlerts(a.out, list)
	return nil
}
