package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows a product listing. Zero values disable the corresponding criterion.
type Filter struct {
	Query       string
	Categories  []string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinRating   float64
	InStockOnly bool
	OnSaleOnly  bool
}

// Match reports whether p satisfies every enabled criterion.
func (f Filter) Match(p Product) bool {
	if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, func(c string) bool {
		return strings.EqualFold(c, p.Category)
	}) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if p.Rating < f.MinRating {
		return false
	}
	if f.InStockOnly && !p.InStock {
		return false
	}
	if f.OnSaleOnly && !p.OnSale() {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return matchesQuery(p, q)
	}
	return true
}

func matchesQuery(p Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}
