// Package money parses admin-entered amounts into decimals.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Up to six integer digits and at most two fractional digits, unsigned.
var pricePattern = regexp.MustCompile(`^\d{1,6}(\.\d{0,2})?$`)

// ValidPrice reports whether raw matches the price pattern.
func ValidPrice(raw string) bool {
	return pricePattern.MatchString(strings.TrimSpace(raw))
}

// ParsePrice validates raw against the price pattern and returns the amount
// rounded to cents.
func ParsePrice(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, fmt.Errorf("is required")
	}
	if !ValidPrice(value) {
		return decimal.Zero, fmt.Errorf("must have at most 6 integer digits and 2 decimals")
	}
	amount, err := decimal.NewFromString(strings.TrimSuffix(value, "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("is not a number")
	}
	return amount.Round(2), nil
}

// Format renders an amount with exactly two decimals.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
