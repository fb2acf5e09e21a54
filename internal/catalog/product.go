// Package catalog provides the read-only product source the storefront sells from.
package catalog

import "github.com/shopspring/decimal"

// Product is an immutable catalog entry. Prices are in the base currency.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Image         string           `json:"image,omitempty"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	InStock       bool             `json:"inStock"`
	Featured      bool             `json:"featured,omitempty"`
	StockCount    *int             `json:"stockCount,omitempty"`
	SKU           string           `json:"sku,omitempty"`
	Brand         string           `json:"brand,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
}

// OnSale reports whether the product is discounted from its original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && p.OriginalPrice.GreaterThan(p.Price)
}

// Catalog is the product source consumed by the storefront.
type Catalog interface {
	// All returns every product in catalog order.
	All() []Product

	// FindByID returns ErrProductNotFound if no product has the given ID.
	FindByID(id string) (Product, error)

	// Search returns the products matching filter in catalog order.
	Search(filter Filter) []Product

	// Categories returns the distinct categories in first-seen order.
	Categories() []string
}
