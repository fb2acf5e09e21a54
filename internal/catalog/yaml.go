package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// yamlProduct is the on-disk shape; prices are strings so they parse exactly.
type yamlProduct struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Price         string   `yaml:"price"`
	OriginalPrice string   `yaml:"originalPrice"`
	Image         string   `yaml:"image"`
	Category      string   `yaml:"category"`
	Description   string   `yaml:"description"`
	Rating        float64  `yaml:"rating"`
	Reviews       int      `yaml:"reviews"`
	InStock       bool     `yaml:"inStock"`
	Featured      bool     `yaml:"featured"`
	StockCount    *int     `yaml:"stockCount"`
	SKU           string   `yaml:"sku"`
	Brand         string   `yaml:"brand"`
	Tags          []string `yaml:"tags"`
}

type yamlCatalog struct {
	Products []yamlProduct `yaml:"products"`
}

// LoadYAMLFile reads a catalog seed file from disk.
func LoadYAMLFile(path string) (*InMemory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// LoadYAML decodes a document of the form `products: [...]`.
func LoadYAML(r io.Reader) (*InMemory, error) {
	var doc yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	products := make([]Product, 0, len(doc.Products))
	for _, yp := range doc.Products {
		p, err := yp.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return NewInMemory(products)
}

func (yp yamlProduct) toProduct() (Product, error) {
	price, err := decimal.NewFromString(yp.Price)
	if err != nil {
		return Product{}, fmt.Errorf("product %q: invalid price %q: %w", yp.ID, yp.Price, err)
	}
	if price.IsNegative() {
		return Product{}, fmt.Errorf("product %q: price must not be negative", yp.ID)
	}
	p := Product{
		ID:          yp.ID,
		Name:        yp.Name,
		Price:       price,
		Image:       yp.Image,
		Category:    yp.Category,
		Description: yp.Description,
		Rating:      yp.Rating,
		Reviews:     yp.Reviews,
		InStock:     yp.InStock,
		Featured:    yp.Featured,
		StockCount:  yp.StockCount,
		SKU:         yp.SKU,
		Brand:       yp.Brand,
		Tags:        yp.Tags,
	}
	if yp.OriginalPrice != "" {
		op, err := decimal.NewFromString(yp.OriginalPrice)
		if err != nil {
			return Product{}, fmt.Errorf("product %q: invalid original price %q: %w", yp.ID, yp.OriginalPrice, err)
		}
		p.OriginalPrice = &op
	}
	return p, nil
}
