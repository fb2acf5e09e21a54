package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest float64) bool

// gte returns a ParamValidator that checks if the argument is greater than or equal to min.
func gte(min float64) ParamValidator {
	return func(v float64) bool { return v >= min }
}

// between returns a ParamValidator that checks if the argument lies in [min, max].
func between(min, max float64) ParamValidator {
	return func(v float64) bool { return v >= min && v <= max }
}

// QueryFloatBetween parses an optional float query parameter that must lie in [min, max].
// A missing parameter yields 0 and true.
func QueryFloatBetween(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, min, max float64) (float64, bool) {
	return parseValidate(r, w, logger, key, between(min, max))
}

// QueryDecimalGte parses an optional non-negative money amount. A missing parameter yields nil and true.
func QueryDecimalGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, min float64) (*decimal.Decimal, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !gte(min)(d.InexactFloat64()) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s value: %s", key, value))
		return nil, false
	}
	return &d, true
}

// QueryBool parses an optional boolean query parameter. A missing parameter yields false and true.
func QueryBool(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (bool, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s value: %s", key, value))
		return false, false
	}
	return b, true
}

// QueryList collects a repeated or comma separated query parameter.
func QueryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (float64, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || !pValidator(f) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s value: %s", key, value))
		return 0, false
	}
	return f, true
}
