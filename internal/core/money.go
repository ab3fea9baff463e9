// Package core holds the domain model of the community treasury:
// units, transactions, the dues matrix and the reporting aggregates.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Rupiah is a signed whole-rupiah amount. The direction of a
// transaction is encoded in the sign: positive is income, negative is
// expense. There are no fractional rupiah in this ledger.
type Rupiah int64

// ParseRupiah parses a positive amount from form input. Digit grouping
// separators ("50.000", "50,000") and surrounding whitespace are
// accepted. Zero, negative and non-numeric input are rejected; the
// caller applies the sign for the transaction direction.
func ParseRupiah(s string) (Rupiah, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	var digits strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '.' || r == ',':
			// grouping separator, ignore
		default:
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return Rupiah(v), nil
}

// Abs returns the magnitude, used when displaying expenses.
func (r Rupiah) Abs() Rupiah {
	if r < 0 {
		return -r
	}
	return r
}

// Format renders the amount as "Rp 1.234.567" with a leading minus for
// negative values.
func (r Rupiah) Format() string {
	neg := r < 0
	v := int64(r)
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
