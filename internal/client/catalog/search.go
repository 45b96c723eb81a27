package catalog

import (
	"strings"

	"github.com/dmitrijs2005/comparehub/internal/client/models"
)

const SearchLimit = 8

// Search returns up to limit products whose brand or model contains term,
// case-insensitively. A blank term matches nothing.
func Search(products []models.Product, term string, limit int) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	if limit <= 0 {
		limit = SearchLimit
	}

	var out []models.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Model), term) || strings.Contains(strings.ToLower(p.Brand), term) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
