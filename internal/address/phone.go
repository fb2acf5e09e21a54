package address

import (
	"strings"
	"unicode"
)

// FormatPhoneNumber is presentation only; use Validate to check a phone number.
//
//	IN, 10 digits    -> +91 XXXXX XXXXX
//	US/CA, 10 digits -> +1 (XXX) XXX-XXXX
//	other known      -> <phone code> <digits>
//
// Unknown countries and IN/US/CA inputs of another length are returned unchanged.
func (s *Service) FormatPhoneNumber(raw, countryCode string) string {
	country, ok := s.registry.Country(countryCode)
	if !ok {
		return raw
	}
	digits := onlyDigits(raw)

	switch country.Code {
	case "IN":
		if len(digits) == 10 {
			return "+91 " + digits[:5] + " " + digits[5:]
		}
	case "US", "CA":
		if len(digits) == 10 {
			return country.PhoneCode + " (" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
		}
	default:
		return country.PhoneCode + " " + digits
	}
	return raw
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// compactPhone strips the grouping characters FormatPhoneNumber inserts.
func compactPhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, s)
}
