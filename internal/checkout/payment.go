package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/go-playground/validator/v10"
)

// CardDetails is what the shopper types into the card form. Number may contain spaces.
type CardDetails struct {
	Number string `json:"number" validate:"notblank,min=13"`
	Expiry string `json:"expiry" validate:"required,expiry"`
	CVV    string `json:"cvv" validate:"required,min=3"`
	Name   string `json:"name" validate:"notblank"`
}

// PaymentDetails is a payment submission. Card is required only for the card method.
type PaymentDetails struct {
	Method store.PaymentMethodType `json:"method"`
	Card   *CardDetails            `json:"card,omitempty"`
}

// PaymentSummary is the retained, non-sensitive view of a submitted payment.
type PaymentSummary struct {
	Method     store.PaymentMethodType `json:"method"`
	Brand      string                  `json:"brand,omitempty"`
	Last4      string                  `json:"last4,omitempty"`
	Descriptor string                  `json:"descriptor"`
}

var methodNames = map[store.PaymentMethodType]string{
	store.PaymentCard:         "Credit/Debit Card",
	store.PaymentPayPal:       "PayPal",
	store.PaymentApplePay:     "Apple Pay",
	store.PaymentGooglePay:    "Google Pay",
	store.PaymentUPI:          "UPI",
	store.PaymentBankTransfer: "Bank Transfer",
}

var (
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)

	brandPatterns = []struct {
		brand   string
		pattern *regexp.Regexp
	}{
		{"Visa", regexp.MustCompile(`^4`)},
		{"Mastercard", regexp.MustCompile(`^5[1-5]`)},
		{"American Express", regexp.MustCompile(`^3[47]`)},
		{"Discover", regexp.MustCompile(`^6`)},
	}

	// cardMessages maps field and failed rule to the message shown next to the field.
	cardMessages = map[string]map[string]string{
		"number": {"notblank": "Card number is required", "min": "Please enter a valid card number"},
		"expiry": {"required": "Expiry date is required", "expiry": "Please enter a valid expiry date (MM/YY)"},
		"cvv":    {"required": "CVV is required", "min": "Please enter a valid CVV"},
		"name":   {"notblank": "Cardholder name is required"},
	}
)

var errUnknownMethod = errors.New("unknown payment method")

// CardBrand detects the card network from the leading digits. It returns "" when unknown.
func CardBrand(number string) string {
	n := compactCardNumber(number)
	for _, b := range brandPatterns {
		if b.pattern.MatchString(n) {
			return b.brand
		}
	}
	return ""
}

func compactCardNumber(number string) string {
	return strings.ReplaceAll(number, " ", "")
}

func newPaymentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validatePayment checks a submission and returns a ValidationError keyed by field.
// Non-card methods are accepted as-is.
func (o *Orchestrator) validatePayment(details PaymentDetails) error {
	if _, ok := methodNames[details.Method]; !ok {
		return commerceerrors.NewValidationError(map[string]string{"method": "Please select a payment method"})
	}
	if details.Method != store.PaymentCard {
		return nil
	}
	if details.Card == nil {
		return commerceerrors.NewValidationError(map[string]string{"number": cardMessages["number"]["notblank"]})
	}
	card := *details.Card
	card.Number = compactCardNumber(card.Number)
	err := o.validate.Struct(card)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		if msg, ok := cardMessages[fieldErr.Field()][fieldErr.Tag()]; ok {
			fields[fieldErr.Field()] = msg
			continue
		}
		fields[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
	}
	return commerceerrors.NewValidationError(fields)
}

// summarize keeps what may be shown back to the shopper.
func summarize(details PaymentDetails) (PaymentSummary, error) {
	name, ok := methodNames[details.Method]
	if !ok {
		return PaymentSummary{}, errUnknownMethod
	}
	if details.Method != store.PaymentCard || details.Card == nil {
		return PaymentSummary{Method: details.Method, Descriptor: name}, nil
	}
	number := compactCardNumber(details.Card.Number)
	last4 := number
	if len(number) > 4 {
		last4 = number[len(number)-4:]
	}
	brand := CardBrand(number)
	label := brand
	if label == "" {
		label = "Card"
	}
	return PaymentSummary{
		Method:     details.Method,
		Brand:      brand,
		Last4:      last4,
		Descriptor: label + " ending in " + last4,
	}, nil
}
