// Package region provides the static catalog of countries, currencies and address formats.
package region

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/shopspring/decimal"
)

// Currency is a display currency. Rate converts one unit of the base currency into this currency.
type Currency struct {
	Code    string          `json:"code"`
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Rate    decimal.Decimal `json:"rate"`
	Country string          `json:"country"`
	Flag    string          `json:"flag"`
}

// Country is a shipping region with its own address format.
type Country struct {
	Code      string        `json:"code"`
	Name      string        `json:"name"`
	Flag      string        `json:"flag"`
	Currency  string        `json:"currency"`
	PhoneCode string        `json:"phoneCode"`
	Format    AddressFormat `json:"addressFormat"`
}

// postalFields are the keys a format may use for its postal code, in lookup order.
var postalFields = []string{"zipCode", "pinCode", "postcode"}

// AddressFormat describes which address fields a country uses and how they are validated.
type AddressFormat struct {
	Fields            []string          `json:"fields"`
	Required          []string          `json:"required"`
	PostalField       string            `json:"postalField,omitempty"`
	PostalCodePattern string            `json:"postalCodePattern,omitempty"`
	PhonePattern      string            `json:"phonePattern,omitempty"`
	Labels            map[string]string `json:"labels"`

	postal *regexp.Regexp
	phone  *regexp.Regexp
}

// compile prepares the regular expressions and resolves the postal field.
func (f AddressFormat) compile() (AddressFormat, error) {
	var err error
	if f.PostalCodePattern != "" {
		if f.postal, err = regexp.Compile(f.PostalCodePattern); err != nil {
			return f, fmt.Errorf("invalid postal code pattern %q: %w", f.PostalCodePattern, err)
		}
	}
	if f.PhonePattern != "" {
		if f.phone, err = regexp.Compile(f.PhonePattern); err != nil {
			return f, fmt.Errorf("invalid phone pattern %q: %w", f.PhonePattern, err)
		}
	}
	if f.PostalField == "" {
		for _, key := range postalFields {
			if slices.Contains(f.Fields, key) {
				f.PostalField = key
				break
			}
		}
	}
	for _, key := range f.Required {
		if !slices.Contains(f.Fields, key) {
			return f, fmt.Errorf("required field %q is not declared", key)
		}
	}
	return f, nil
}

// Declares reports whether field is part of the format.
func (f AddressFormat) Declares(field string) bool {
	return slices.Contains(f.Fields, field)
}

// IsRequired reports whether field must be filled in.
func (f AddressFormat) IsRequired(field string) bool {
	return slices.Contains(f.Required, field)
}

// Label returns the human-readable label for field, falling back to the key itself.
func (f AddressFormat) Label(field string) string {
	if l, ok := f.Labels[field]; ok {
		return l
	}
	if field == "phone" {
		return "Phone Number"
	}
	return field
}

// MatchPostalCode reports whether code satisfies the postal pattern. Formats without a pattern accept anything.
func (f AddressFormat) MatchPostalCode(code string) bool {
	if f.postal == nil {
		return true
	}
	return f.postal.MatchString(code)
}

// MatchPhone reports whether phone satisfies the phone pattern. Formats without a pattern accept anything.
func (f AddressFormat) MatchPhone(phone string) bool {
	if f.phone == nil {
		return true
	}
	return f.phone.MatchString(phone)
}
