// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Constants for the currencies the ledger is usually fed with.
// Any code present in the rate table is accepted by the converter.
const (
	EUR = "EUR"
	USD = "USD"
	RUB = "RUB"
)

// Base is the currency the opening balance and the rate table are expressed in.
const Base = EUR

// Normalize trims the code and converts it to upper case.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCode returns true if the code consists of exactly three latin letters.
func IsValidCode(code string) bool {
	code = Normalize(code)
	if len(code) != 3 {
		return false
	}

	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}

	return true
}

// ValidCurrency validates whether the field holds a well-formed currency code.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return IsValidCode(c)
	}
	return false
}
