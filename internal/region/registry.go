package region

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Registry is a read-only lookup table of countries, currencies and subdivisions.
// It is safe for concurrent use once constructed.
type Registry struct {
	currencies     []Currency
	countries      []Country
	currencyIdx    map[string]int
	countryIdx     map[string]int
	subdivisions   map[string][]string
	defaultCountry string
}

// NewRegistry builds a registry and checks it for consistency:
// currency codes must be ISO 4217, country codes ISO 3166 regions,
// and every country must reference a known currency.
func NewRegistry(currencies []Currency, countries []Country, subdivisions map[string][]string, defaultCountry string) (*Registry, error) {
	r := &Registry{
		currencies:   make([]Currency, 0, len(currencies)),
		countries:    make([]Country, 0, len(countries)),
		currencyIdx:  make(map[string]int, len(currencies)),
		countryIdx:   make(map[string]int, len(countries)),
		subdivisions: make(map[string][]string, len(subdivisions)),
	}

	for _, c := range currencies {
		if _, err := currency.ParseISO(c.Code); err != nil {
			return nil, fmt.Errorf("currency %q: %w", c.Code, err)
		}
		if _, dup := r.currencyIdx[c.Code]; dup {
			return nil, fmt.Errorf("duplicate currency %q", c.Code)
		}
		if !c.Rate.IsPositive() {
			return nil, fmt.Errorf("currency %q: rate must be positive", c.Code)
		}
		r.currencyIdx[c.Code] = len(r.currencies)
		r.currencies = append(r.currencies, c)
	}

	for _, c := range countries {
		if _, err := language.ParseRegion(c.Code); err != nil {
			return nil, fmt.Errorf("country %q: %w", c.Code, err)
		}
		if _, dup := r.countryIdx[c.Code]; dup {
			return nil, fmt.Errorf("duplicate country %q", c.Code)
		}
		if _, ok := r.currencyIdx[c.Currency]; !ok {
			return nil, fmt.Errorf("country %q references unknown currency %q", c.Code, c.Currency)
		}
		format, err := c.Format.compile()
		if err != nil {
			return nil, fmt.Errorf("country %q: %w", c.Code, err)
		}
		c.Format = format
		r.countryIdx[c.Code] = len(r.countries)
		r.countries = append(r.countries, c)
	}

	for code, list := range subdivisions {
		r.subdivisions[code] = slices.Clone(list)
	}

	if _, ok := r.countryIdx[defaultCountry]; !ok {
		return nil, fmt.Errorf("default country %q: %w", defaultCountry, commerceerrors.ErrCountryNotFound)
	}
	r.defaultCountry = defaultCountry
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the static storefront table.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Static("US")
		if err != nil {
			panic(fmt.Sprintf("static region table is inconsistent: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Static builds a registry from the static storefront table with defaultCountry as the fallback region.
func Static(defaultCountry string) (*Registry, error) {
	return NewRegistry(staticCurrencies(), staticCountries(), staticSubdivisions(), defaultCountry)
}

// Countries returns all countries in display order.
func (r *Registry) Countries() []Country {
	return slices.Clone(r.countries)
}

// Currencies returns all currencies in display order.
func (r *Registry) Currencies() []Currency {
	return slices.Clone(r.currencies)
}

// Country looks up a country by its ISO code (case-insensitive).
func (r *Registry) Country(code string) (Country, bool) {
	i, ok := r.countryIdx[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Country{}, false
	}
	return r.countries[i], true
}

// Currency looks up a currency by its ISO code (case-insensitive).
func (r *Registry) Currency(code string) (Currency, bool) {
	i, ok := r.currencyIdx[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, false
	}
	return r.currencies[i], true
}

// DefaultCountry returns the fallback country.
func (r *Registry) DefaultCountry() Country {
	return r.countries[r.countryIdx[r.defaultCountry]]
}

// DefaultCurrency returns the currency of the fallback country.
func (r *Registry) DefaultCurrency() Currency {
	return r.currencies[r.currencyIdx[r.DefaultCountry().Currency]]
}

// CountryOrDefault never fails: unknown codes resolve to the default country.
func (r *Registry) CountryOrDefault(code string) Country {
	if c, ok := r.Country(code); ok {
		return c
	}
	return r.DefaultCountry()
}

// CurrencyOrDefault never fails: unknown codes resolve to the default currency.
func (r *Registry) CurrencyOrDefault(code string) Currency {
	if c, ok := r.Currency(code); ok {
		return c
	}
	return r.DefaultCurrency()
}

// CurrencyForCountry returns the currency a country uses, or the default currency.
func (r *Registry) CurrencyForCountry(code string) Currency {
	return r.CurrencyOrDefault(r.CountryOrDefault(code).Currency)
}

// StatesOrProvinces returns the subdivision list for a country, or an empty slice.
func (r *Registry) StatesOrProvinces(code string) []string {
	list, ok := r.subdivisions[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return []string{}
	}
	return slices.Clone(list)
}
