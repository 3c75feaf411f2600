// Package moneycodec converts between human decimal strings and the scaled
// integers the ledger stores. All monetary arithmetic in the ledger happens
// on the scaled integers; floating point is never involved.
package moneycodec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmountFormat is returned for any string that does not match the
// amount grammar, carries more fractional digits than the currency allows,
// or does not fit a 64-bit scaled integer.
var ErrInvalidAmountFormat = errors.New("invalid amount format")

// amountPattern accepts a single zero or a non-zero-led integer group of at
// most 18 digits, optionally followed by a fractional part. Signs, exponents,
// grouping separators and leading zeros are rejected.
var amountPattern = regexp.MustCompile(`^(0|[1-9][0-9]{0,17})(\.[0-9]+)?$`)

// StringToInt parses value as a decimal amount with at most decimals
// fractional digits and returns it scaled by 10^decimals. The result is the
// digits of value with the point removed, right-padded with zeros to exactly
// decimals fractional digits.
func StringToInt(value string, decimals int) (int64, error) {
	if !amountPattern.MatchString(value) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, value)
	}
	if dot := strings.IndexByte(value, '.'); dot >= 0 {
		if len(value)-dot-1 > decimals {
			return 0, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmountFormat, value, decimals)
		}
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		// Unreachable after the grammar check, but never trust it silently.
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, value)
	}

	scaled := d.Shift(int32(decimals)).BigInt()
	if !scaled.IsInt64() {
		return 0, fmt.Errorf("%w: %q does not fit a 64-bit scaled integer", ErrInvalidAmountFormat, value)
	}
	return scaled.Int64(), nil
}

// IntToString renders a scaled integer back to its canonical decimal string:
// zero maps to "0"; otherwise the point is inserted decimals places from the
// right and trailing zeros (and a trailing point) are stripped.
func IntToString(value int64, decimals int) string {
	if value == 0 {
		return "0"
	}
	return decimal.New(value, -int32(decimals)).String()
}
