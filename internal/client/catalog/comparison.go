package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

const Slots = 2

var (
	ErrNotOpen           = errors.New("comparison is not open")
	ErrInvalidSlot       = errors.New("invalid slot")
	ErrSlotFilled        = errors.New("slot already holds a product")
	ErrNoSearch          = errors.New("no slot is waiting for a product")
	ErrProductNotFound   = errors.New("product not found")
	ErrNotEnoughProducts = errors.New("please add at least 2 products to compare")
)

// Loader fetches the full catalog for searching.
type Loader func(ctx context.Context) ([]models.Product, error)

// Comparison is the two-slot compare view. Slots hold copies, so removing a
// product leaves nothing pointing back into the catalog.
type Comparison struct {
	open       bool
	all        []models.Product
	slots      [Slots]*models.Product
	searchSlot int
}

func NewComparison() *Comparison {
	return &Comparison{searchSlot: -1}
}

// Open loads the catalog and shows the view, optionally with initial in the
// first slot. Opening an already open view does nothing.
func (c *Comparison) Open(ctx context.Context, load Loader, initial *models.Product) error {
	if c.open {
		return nil
	}

	all, err := load(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	c.all = all
	c.slots = [Slots]*models.Product{}
	c.searchSlot = -1
	if initial != nil {
		p := *initial
		c.slots[0] = &p
	}
	c.open = true
	return nil
}

func (c *Comparison) IsOpen() bool { return c.open }

// Close discards the slots and the loaded catalog.
func (c *Comparison) Close() {
	c.open = false
	c.all = nil
	c.slots = [Slots]*models.Product{}
	c.searchSlot = -1
}

func (c *Comparison) checkSlot(slot int) error {
	if !c.open {
		return ErrNotOpen
	}
	if slot < 0 || slot >= Slots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot+1)
	}
	return nil
}

// StartSearch targets an empty slot for the next Select.
func (c *Comparison) StartSearch(slot int) error {
	if err := c.checkSlot(slot); err != nil {
		return err
	}
	if c.slots[slot] != nil {
		return ErrSlotFilled
	}
	c.searchSlot = slot
	return nil
}

// SearchSlot reports the slot waiting for a product, if any.
func (c *Comparison) SearchSlot() (int, bool) {
	return c.searchSlot, c.searchSlot >= 0
}

func (c *Comparison) Search(term string) []models.Product {
	if !c.open {
		return nil
	}
	return Search(c.all, term, SearchLimit)
}

// Select puts the product with id into the slot chosen by StartSearch and
// ends the search.
func (c *Comparison) Select(id string) error {
	if !c.open {
		return ErrNotOpen
	}
	if c.searchSlot < 0 {
		return ErrNoSearch
	}
	p, ok := FindProduct(c.all, id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	c.slots[c.searchSlot] = &p
	c.searchSlot = -1
	return nil
}

func (c *Comparison) Remove(slot int) error {
	if err := c.checkSlot(slot); err != nil {
		return err
	}
	c.slots[slot] = nil
	return nil
}

// Slot returns a copy of the product in slot.
func (c *Comparison) Slot(slot int) (models.Product, bool) {
	if slot < 0 || slot >= Slots || c.slots[slot] == nil {
		return models.Product{}, false
	}
	return *c.slots[slot], true
}

// Filled returns the occupied slots in order.
func (c *Comparison) Filled() []models.Product {
	var out []models.Product
	for _, p := range c.slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (c *Comparison) Report() (string, error) {
	return Report(c.Filled())
}

func (c *Comparison) ShareText() (string, error) {
	return ShareText(c.Filled())
}
