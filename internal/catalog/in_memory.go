package catalog

import (
	"fmt"
	"slices"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
)

// InMemory implements Catalog on top of an ordered slice and an id index.
// It is immutable after construction and safe for concurrent use.
type InMemory struct {
	products []Product
	index    map[string]int
}

// NewInMemory creates a catalog holding products. Duplicate ids are rejected.
func NewInMemory(products []Product) (*InMemory, error) {
	c := &InMemory{
		products: make([]Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}
	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// FindByID retrieves a product by its ID.
func (c *InMemory) FindByID(id string) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, fmt.Errorf("product %q: %w", id, commerceerrors.ErrProductNotFound)
	}
	return c.products[i], nil
}

// All retrieves all products.
func (c *InMemory) All() []Product {
	return slices.Clone(c.products)
}

func (c *InMemory) Search(filter Filter) []Product {
	list := make([]Product, 0)
	for _, p := range c.products {
		if filter.Match(p) {
			list = append(list, p)
		}
	}
	return list
}

func (c *InMemory) Categories() []string {
	var out []string
	for _, p := range c.products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}
