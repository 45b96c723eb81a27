package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/catalog"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/client/share"
)

// Compare opens the comparison, loading the whole catalog for search. An
// id puts that product from the listing in the first slot.
func (a *App) Compare(ctx context.Context, args []string) error {
	var initial *models.Product
	if len(args) > 0 && !a.compare.IsOpen() {
		p, err := a.findProduct(args[0])
		if err != nil {
			return err
		}
		initial = &p
	}

	if !a.compare.IsOpen() {
		fmt.Fprintln(a.out, "Loading products...")
	}
	if err := a.compare.Open(ctx, a.catalogService.Products, initial); err != nil {
		return err
	}
	renderComparison(a.out, a.compare)
	return nil
}

func parseSlot(args []string, u string) (int, error) {
	if len(args) != 1 {
		return 0, usage(u)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, usage(u)
	}
	return n - 1, nil
}

// Slot targets an empty slot for the next pick.
func (a *App) Slot(_ context.Context, args []string) error {
	slot, err := parseSlot(args, "slot <1|2>")
	if err != nil {
		return err
	}
	if err := a.compare.StartSearch(slot); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Search for a product for slot %d: type 'search <term>', then 'pick <id>'.\n", slot+1)
	return nil
}

func (a *App) Search(_ context.Context, args []string) error {
	if !a.compare.IsOpen() {
		return catalog.ErrNotOpen
	}
	if len(args) == 0 {
		return usage("search <term>")
	}
	renderSearchResults(a.out, a.compare.Search(strings.Join(args, " ")))
	return nil
}

func (a *App) Pick(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("pick <id>")
	}
	if err := a.compare.Select(args[0]); err != nil {
		return err
	}
	renderComparison(a.out, a.compare)
	return nil
}

func (a *App) Remove(_ context.Context, args []string) error {
	slot, err := parseSlot(args, "remove <1|2>")
	if err != nil {
		return err
	}
	if err := a.compare.Remove(slot); err != nil {
		return err
	}
	renderComparison(a.out, a.compare)
	return nil
}

func (a *App) Report(_ context.Context, _ []string) error {
	if !a.compare.IsOpen() {
		return catalog.ErrNotOpen
	}
	r, err := a.compare.Report()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, r)
	return nil
}

func (a *App) exportReport(ctx context.Context) (string, error) {
	if !a.compare.IsOpen() {
		return "", catalog.ErrNotOpen
	}
	r, err := a.compare.Report()
	if err != nil {
		return "", err
	}
	return a.store.Put(ctx, share.StampedName(catalog.ReportFilename, a.now()), []byte(r))
}

// Export writes the report to the configured store.
func (a *App) Export(ctx context.Context, _ []string) error {
	loc, err := a.exportReport(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comparison exported to %s\n", loc)
	return nil
}

// Share prints the share line along with where the report can be found.
func (a *App) Share(ctx context.Context, _ []string) error {
	if !a.compare.IsOpen() {
		return catalog.ErrNotOpen
	}
	text, err := a.compare.ShareText()
	if err != nil {
		return err
	}
	loc, err := a.exportReport(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	fmt.Fprintln(a.out, loc)
	return nil
}

func (a *App) Done(_ context.Context, _ []string) error {
	a.compare.Close()
	fmt.Fprintln(a.out, "Comparison closed")
	return nil
}
