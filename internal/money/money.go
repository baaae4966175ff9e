// Package money provides a fixed-point representation for monetary values.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in minor units (cents) with two implied
// fraction digits. Arithmetic on Amount never passes through float64.
type Amount int64

var (
	// ErrInvalidAmount indicates a value that cannot be parsed exactly.
	ErrInvalidAmount = errors.New("invalid monetary amount")
	// ErrNegativeAmount indicates a negative value where one is not allowed.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// FromCents wraps a raw minor-unit count.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// FromDecimalString parses a decimal string such as "19.99" into an Amount.
// At most two fraction digits are accepted; anything else fails rather than
// rounding silently.
func FromDecimalString(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than two fraction digits in %q", ErrInvalidAmount, s)
	}
	// Both parts must be bare digits; ParseInt alone would let a stray
	// inner sign through ("1.-5", "--1.00").
	if !allDigits(frac) || (whole != "" && !allDigits(whole)) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	// Pad to exactly two fraction digits.
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	cents64, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	total := units*100 + int64(cents64)
	if negative {
		total = -total
	}
	return Amount(total), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Cents returns the raw minor-unit count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return a + b
}

// MulQty returns the amount multiplied by an integer quantity. The result is
// exact: quantity times a whole number of cents is a whole number of cents.
func (a Amount) MulQty(qty int) Amount {
	return a * Amount(qty)
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// String renders the amount as a decimal with exactly two fraction digits,
// e.g. "69.93". This is also the form bound to numeric(10,2) columns.
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON emits the amount as a JSON number with two fraction digits,
// matching what API clients expect for prices and totals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string. The raw
// token is parsed as text so values never round-trip through float64.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := FromDecimalString(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
