package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/comparehub/internal/client/catalog"
	"github.com/dmitrijs2005/comparehub/internal/client/client"
	"github.com/dmitrijs2005/comparehub/internal/client/models"
	"github.com/dmitrijs2005/comparehub/internal/logging"
)

// DefaultCategory is the listing the client opens when none is given.
const DefaultCategory = "smartphones"

// CatalogService fetches product data for the listing and comparison views.
type CatalogService interface {
	// Listing fetches one category and returns a listing with no filters applied.
	Listing(ctx context.Context, category string) (*catalog.Listing, error)
	// Products fetches the whole catalog, without a category. It has the
	// shape of catalog.Loader.
	Products(ctx context.Context) ([]models.Product, error)
}

type catalogService struct {
	client   client.Client
	pageSize int
	log      logging.Logger
}

func NewCatalogService(c client.Client, pageSize int, log logging.Logger) CatalogService {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	if log == nil {
		log = logging.Nop()
	}
	return &catalogService{client: c, pageSize: pageSize, log: log}
}

func (s *catalogService) Listing(ctx context.Context, category string) (*catalog.Listing, error) {
	if category == "" {
		category = DefaultCategory
	}
	products, err := s.client.Products(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}
	s.log.Debug(ctx, "catalog loaded", "category", category, "count", len(products))
	return catalog.NewListing(products, s.pageSize), nil
}

func (s *catalogService) Products(ctx context.Context) ([]models.Product, error) {
	products, err := s.client.Products(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return products, nil
}
