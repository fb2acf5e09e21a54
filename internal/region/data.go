package region

import "github.com/shopspring/decimal"

// Product prices are authored in USD; every rate below is "units of currency per 1 USD".
func staticCurrencies() []Currency {
	return []Currency{
		{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.NewFromInt(1), Country: "US", Flag: "🇺🇸"},
		{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.85"), Country: "EU", Flag: "🇪🇺"},
		{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.73"), Country: "GB", Flag: "🇬🇧"},
		{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Rate: decimal.RequireFromString("1.25"), Country: "CA", Flag: "🇨🇦"},
		{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("1.35"), Country: "AU", Flag: "🇦🇺"},
		{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: decimal.NewFromInt(110), Country: "JP", Flag: "🇯🇵"},
		{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: decimal.NewFromInt(83), Country: "IN", Flag: "🇮🇳"},
		{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Rate: decimal.RequireFromString("1.35"), Country: "SG", Flag: "🇸🇬"},
	}
}

func staticFormats() map[string]AddressFormat {
	europe := AddressFormat{
		Fields:            []string{"street", "postcode", "city"},
		Required:          []string{"street", "postcode", "city"},
		PostalCodePattern: `^[0-9]{5}$`,
		PhonePattern:      `^\+49[1-9][0-9]{10,11}$`,
		Labels: map[string]string{
			"street":   "Street Address",
			"postcode": "Postal Code",
			"city":     "City",
			"phone":    "Phone Number",
		},
	}
	return map[string]AddressFormat{
		"IN": {
			Fields:            []string{"street", "area", "city", "state", "pinCode"},
			Required:          []string{"street", "city", "state", "pinCode"},
			PostalCodePattern: `^[1-9][0-9]{5}$`,
			PhonePattern:      `^\+91[6-9][0-9]{9}$`,
			Labels: map[string]string{
				"street":  "Street/Building",
				"area":    "Area/Locality",
				"city":    "City",
				"state":   "State",
				"pinCode": "PIN Code",
				"phone":   "Mobile Number",
			},
		},
		"US": {
			Fields:            []string{"street", "city", "state", "zipCode"},
			Required:          []string{"street", "city", "state", "zipCode"},
			PostalCodePattern: `^[0-9]{5}(-[0-9]{4})?$`,
			PhonePattern:      `^\+1[2-9][0-9]{9}$`,
			Labels: map[string]string{
				"street":  "Street Address",
				"city":    "City",
				"state":   "State",
				"zipCode": "ZIP Code",
				"phone":   "Phone Number",
			},
		},
		"GB": {
			Fields:            []string{"houseNumber", "street", "city", "postcode"},
			Required:          []string{"street", "city", "postcode"},
			PostalCodePattern: `^[A-Z]{1,2}[0-9R][0-9A-Z]? [0-9][A-Z]{2}$`,
			PhonePattern:      `^\+44[1-9][0-9]{8,9}$`,
			Labels: map[string]string{
				"houseNumber": "House Number",
				"street":      "Street Name",
				"city":        "City",
				"postcode":    "Postcode",
				"phone":       "Phone Number",
			},
		},
		"AU": {
			Fields:            []string{"unit", "street", "suburb", "state", "postcode"},
			Required:          []string{"street", "suburb", "state", "postcode"},
			PostalCodePattern: `^[0-9]{4}$`,
			PhonePattern:      `^\+61[2-9][0-9]{8}$`,
			Labels: map[string]string{
				"unit":     "Unit/Street Number",
				"street":   "Street Name",
				"suburb":   "Suburb",
				"state":    "State",
				"postcode": "Postcode",
				"phone":    "Phone Number",
			},
		},
		"CA": {
			Fields:            []string{"street", "city", "province", "postcode"},
			Required:          []string{"street", "city", "province", "postcode"},
			PostalCodePattern: `^[A-Z][0-9][A-Z] [0-9][A-Z][0-9]$`,
			PhonePattern:      `^\+1[2-9][0-9]{9}$`,
			Labels: map[string]string{
				"street":   "Street Address",
				"city":     "City",
				"province": "Province",
				"postcode": "Postal Code",
				"phone":    "Phone Number",
			},
		},
		// FR, JP and SG share the German layout until they get their own.
		"DE": europe,
		"FR": europe,
		"JP": europe,
		"SG": europe,
	}
}

func staticCountries() []Country {
	f := staticFormats()
	return []Country{
		{Code: "IN", Name: "India", Flag: "🇮🇳", Currency: "INR", PhoneCode: "+91", Format: f["IN"]},
		{Code: "US", Name: "United States", Flag: "🇺🇸", Currency: "USD", PhoneCode: "+1", Format: f["US"]},
		{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧", Currency: "GBP", PhoneCode: "+44", Format: f["GB"]},
		{Code: "AU", Name: "Australia", Flag: "🇦🇺", Currency: "AUD", PhoneCode: "+61", Format: f["AU"]},
		{Code: "CA", Name: "Canada", Flag: "🇨🇦", Currency: "CAD", PhoneCode: "+1", Format: f["CA"]},
		{Code: "DE", Name: "Germany", Flag: "🇩🇪", Currency: "EUR", PhoneCode: "+49", Format: f["DE"]},
		{Code: "FR", Name: "France", Flag: "🇫🇷", Currency: "EUR", PhoneCode: "+33", Format: f["FR"]},
		{Code: "JP", Name: "Japan", Flag: "🇯🇵", Currency: "JPY", PhoneCode: "+81", Format: f["JP"]},
		{Code: "SG", Name: "Singapore", Flag: "🇸🇬", Currency: "SGD", PhoneCode: "+65", Format: f["SG"]},
	}
}

func staticSubdivisions() map[string][]string {
	return map[string][]string{
		"IN": {
			"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
			"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
			"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
			"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
			"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
			"Andaman and Nicobar Islands", "Chandigarh", "Dadra and Nagar Haveli and Daman and Diu",
			"Delhi", "Jammu and Kashmir", "Ladakh", "Lakshadweep", "Puducherry",
		},
		"US": {
			"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
			"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
			"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
			"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
			"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
		},
		"AU": {"NSW", "VIC", "QLD", "WA", "SA", "TAS", "ACT", "NT"},
		"CA": {"AB", "BC", "MB", "NB", "NL", "NS", "NT", "NU", "ON", "PE", "QC", "SK", "YT"},
	}
}
