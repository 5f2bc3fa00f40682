// Package money provides fixed-point arithmetic for monetary amounts.
// All amounts are integer cents; tax rates are integer basis points
// (1 bp = 0.01%), so 1000 bp is a 10% rate. Intermediate sums are exact
// and rounding happens only where a fractional cent is produced.
package money

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/apper-canvas/shopsync/pkg/errors"
)

// Cents is a monetary amount in integer cents.
type Cents int64

// BasisPoints expresses a percentage rate in hundredths of a percent.
type BasisPoints int64

const bpPerUnit = 10_000

// LineTotal returns price × quantity for a single line item.
// Negative prices and non-positive quantities are rejected before they can
// enter a ledger.
func LineTotal(unitPrice Cents, quantity int) (Cents, error) {
	if unitPrice < 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("unit price must not be negative, got %d", unitPrice))
	}
	if quantity < 1 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("quantity must be at least 1, got %d", quantity))
	}
	return unitPrice * Cents(quantity), nil
}

// TaxAmount computes subtotal × rate with half-up rounding to the nearest
// cent. The subtotal must already be an exact (unrounded) sum of line totals.
func TaxAmount(subtotal Cents, rate BasisPoints) Cents {
	if subtotal <= 0 || rate <= 0 {
		return 0
	}
	raw := int64(subtotal) * int64(rate)
	return Cents((raw + bpPerUnit/2) / bpPerUnit)
}

// ParseDecimal converts a decimal string such as "10", "10.5", or "10.50"
// to cents. More than two fractional digits is rejected rather than rounded,
// since input past cent precision indicates caller error.
func ParseDecimal(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperrors.InvalidInput("amount must not be empty")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	// Only bare digits are allowed past the leading sign; ParseInt alone
	// would accept a stray sign inside either part (e.g. "1.-5").
	if !allDigits(whole) || !allDigits(frac) {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid amount %q", s))
	}
	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, apperrors.InvalidInput(fmt.Sprintf("amount %q has more than two decimal places", s))
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid amount %q", s))
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid amount %q", s))
	}

	c := Cents(w*100 + f)
	if neg {
		c = -c
	}
	return c, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String formats the amount as a two-decimal string, e.g. 1050 -> "10.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
