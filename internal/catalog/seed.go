package catalog

import "github.com/shopspring/decimal"

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	p := price(s)
	return &p
}

func count(n int) *int {
	return &n
}

// Builtin returns the demo catalog used when no seed file is configured.
func Builtin() *InMemory {
	c, err := NewInMemory([]Product{
		{
			ID: "1", Name: "Wireless Noise-Cancelling Headphones", Price: price("199.99"), OriginalPrice: pricePtr("249.99"),
			Category: "Electronics", Description: "Over-ear headphones with 30 hours of battery life.",
			Rating: 4.8, Reviews: 2847, InStock: true, Featured: true, StockCount: count(15),
			SKU: "WH-1000", Brand: "AudioTech", Tags: []string{"wireless", "audio", "bluetooth"},
		},
		{
			ID: "2", Name: "Smart Fitness Watch", Price: price("299.99"),
			Category: "Electronics", Description: "Heart rate, GPS and sleep tracking in a water-resistant case.",
			Rating: 4.6, Reviews: 1923, InStock: true, StockCount: count(8),
			SKU: "SW-200", Brand: "FitPro", Tags: []string{"fitness", "wearable"},
		},
		{
			ID: "3", Name: "Organic Cotton T-Shirt", Price: price("29.99"), OriginalPrice: pricePtr("39.99"),
			Category: "Clothing", Description: "Soft, breathable everyday tee.",
			Rating: 4.4, Reviews: 456, InStock: true, StockCount: count(120),
			SKU: "TS-ORG-01", Brand: "EcoWear", Tags: []string{"organic", "cotton"},
		},
		{
			ID: "4", Name: "Leather Messenger Bag", Price: price("149.99"),
			Category: "Accessories", Description: "Full-grain leather bag with a padded laptop sleeve.",
			Rating: 4.7, Reviews: 634, InStock: false, StockCount: count(0),
			SKU: "BG-LTH-15", Brand: "Heritage", Tags: []string{"leather", "bag"},
		},
		{
			ID: "5", Name: "Ceramic Pour-Over Coffee Set", Price: price("49.99"),
			Category: "Home", Description: "Dripper, carafe and two cups.",
			Rating: 4.5, Reviews: 312, InStock: true, StockCount: count(40),
			SKU: "CF-POUR-2", Brand: "BrewCraft", Tags: []string{"coffee", "kitchen"},
		},
		{
			ID: "6", Name: "Yoga Mat Pro", Price: price("79.99"), OriginalPrice: pricePtr("99.99"),
			Category: "Sports", Description: "Non-slip 6mm mat with carrying strap.",
			Rating: 4.3, Reviews: 988, InStock: true, Featured: true, StockCount: count(3),
			SKU: "YM-PRO-6", Brand: "FlexFit", Tags: []string{"yoga", "fitness"},
		},
		{
			ID: "7", Name: "Mechanical Keyboard", Price: price("129.99"),
			Category: "Electronics", Description: "Hot-swappable switches and per-key lighting.",
			Rating: 4.9, Reviews: 1502, InStock: true, StockCount: count(22),
			SKU: "KB-MECH-87", Brand: "KeyForge", Tags: []string{"keyboard", "gaming"},
		},
		{
			ID: "8", Name: "Stainless Steel Water Bottle", Price: price("24.99"),
			Category: "Sports", Description: "Keeps drinks cold for 24 hours.",
			Rating: 4.2, Reviews: 221, InStock: true, StockCount: count(75),
			SKU: "WB-SS-750", Brand: "HydroPeak", Tags: []string{"hydration", "outdoor"},
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
