// Package errors provides custom error types for storefront operations.
package errors

import (
	"errors"
	"sort"
	"strings"
)

var ErrCountryNotFound = errors.New("country not found")
var ErrCurrencyNotFound = errors.New("currency not found")
var ErrProductNotFound = errors.New("product not found")

var ErrAddressNotFound = errors.New("address not found")
var ErrPaymentMethodNotFound = errors.New("payment method not found")

var ErrStateNotFound = errors.New("persisted state not found")
var ErrLoadState = errors.New("failed to load persisted state")
var ErrSaveState = errors.New("failed to save persisted state")

var ErrInvalidTransition = errors.New("checkout step does not allow this action")
var ErrStepInProgress = errors.New("checkout step is already being processed")
var ErrEmptyCart = errors.New("cart is empty")

var ErrServiceUnavailable = errors.New("external service unavailable")

// ValidationError carries one message per invalid field.
// It is always recoverable: the caller shows the messages and lets the user correct the input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns nil when fields is empty, so callers can return it directly.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Fields[k])
	}
	return b.String()
}

// AsValidation extracts the field messages from err, if it is a validation error.
func AsValidation(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
