package address

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/region"
)

// ValidationService validates and formats addresses for the countries in a registry.
type ValidationService interface {
	// Validate returns nil or a *ValidationError keyed by field name.
	Validate(addr Address) error

	// Normalize trims values, upper-cases the postal code and drops fields the country does not declare.
	// Returns ErrCountryNotFound for an unknown country.
	Normalize(addr Address) (Address, error)

	// FormatPhoneNumber groups the digits of raw for display. It never fails.
	FormatPhoneNumber(raw, countryCode string) string

	// Summary renders the address as display lines in format order.
	Summary(addr Address) []string
}

// Service implements ValidationService on top of a region registry.
type Service struct {
	registry *region.Registry
}

// NewService creates a new address service backed by registry.
func NewService(registry *region.Registry) *Service {
	return &Service{registry: registry}
}

func (s *Service) Normalize(addr Address) (Address, error) {
	country, ok := s.registry.Country(addr.Country)
	if !ok {
		return addr, fmt.Errorf("address country %q: %w", addr.Country, commerceerrors.ErrCountryNotFound)
	}
	out := addr.Clone()
	out.Country = country.Code
	out.Phone = strings.TrimSpace(addr.Phone)
	out.Fields = make(map[string]string, len(country.Format.Fields))
	for _, key := range country.Format.Fields {
		v := strings.TrimSpace(addr.Fields[key])
		if v == "" {
			continue
		}
		if key == country.Format.PostalField {
			v = strings.ToUpper(v)
		}
		out.Fields[key] = v
	}
	if out.Type == "" {
		out.Type = TypeHome
	}
	return out, nil
}

func (s *Service) Validate(addr Address) error {
	normalized, err := s.Normalize(addr)
	if err != nil {
		return commerceerrors.NewValidationError(map[string]string{"country": "Please select a supported country"})
	}
	country, _ := s.registry.Country(normalized.Country)
	format := country.Format

	errs := make(map[string]string)
	for _, key := range format.Required {
		if normalized.Fields[key] == "" {
			errs[key] = format.Label(key) + " is required"
		}
	}

	if key := format.PostalField; key != "" {
		if v := normalized.Fields[key]; v != "" && !format.MatchPostalCode(v) {
			errs[key] = "Please enter a valid " + format.Label(key)
		}
	}

	if normalized.Phone != "" && !format.MatchPhone(compactPhone(normalized.Phone)) {
		errs["phone"] = "Please enter a valid " + format.Label("phone")
	}

	return commerceerrors.NewValidationError(errs)
}

func (s *Service) Summary(addr Address) []string {
	country, ok := s.registry.Country(addr.Country)
	if !ok {
		lines := make([]string, 0, len(addr.Fields))
		for _, key := range slices.Sorted(maps.Keys(addr.Fields)) {
			lines = append(lines, addr.Fields[key])
		}
		return lines
	}
	lines := make([]string, 0, len(country.Format.Fields)+2)
	for _, key := range country.Format.Fields {
		if v := strings.TrimSpace(addr.Fields[key]); v != "" {
			lines = append(lines, v)
		}
	}
	lines = append(lines, country.Name)
	if addr.Phone != "" {
		lines = append(lines, s.FormatPhoneNumber(addr.Phone, country.Code))
	}
	return lines
}
