package catalog

import (
	"fmt"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

func osSpecs(os string) models.Specs {
	if os == "" {
		return nil
	}
	return models.Specs{{
		Key:  "Os",
		Kind: models.SpecMap,
		Children: []models.SpecNode{
			{Key: "Operating System", Kind: models.SpecScalar, Value: os},
		},
	}}
}

func product(id, brand, model, os string, prices ...float64) models.Product {
	p := models.Product{ID: id, Brand: brand, Model: model, Specs: osSpecs(os)}
	for i, price := range prices {
		p.Offers = append(p.Offers, models.Offer{Retailer: fmt.Sprintf("shop%d", i), Price: models.Money(price)})
	}
	return p
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func numbered(n int) []models.Product {
	out := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, product(fmt.Sprintf("p%02d", i), "Brand", fmt.Sprintf("Model %02d", i), "Android", float64(1000*i)))
	}
	return out
}
