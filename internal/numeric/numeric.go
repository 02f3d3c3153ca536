// Package numeric turns loosely typed form values into decimals.
package numeric

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// MaxLength bounds a numeric string once commas and whitespace are removed.
	MaxLength = 64
	// MaxScale is the most fraction digits a value may carry.
	MaxScale  = 16

	maxExponent = 12
)

// MaxMagnitude bounds accepted values so that no calculator output can
// overflow a float64.
var MaxMagnitude = decimal.New(1, maxExponent)

var (
	ErrMissing    = errors.New("is required")
	ErrNotNumeric = errors.New("must be numeric")
	ErrNegative   = errors.New("must be greater than or equal to 0")
	ErrTooLarge   = errors.New("must not exceed 1,000,000,000,000")
	ErrTooLong    = errors.New("must be at most 64 characters")
	ErrTooPrecise = errors.New("must have at most 16 decimal places")
)

// Parse converts a decoded JSON/YAML value into a non-negative decimal.
// Strings may carry thousands separators and surrounding whitespace.
func Parse(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, ErrMissing
	case decimal.Decimal:
		return check(v)
	case json.Number:
		return ParseString(v.String())
	case string:
		return ParseString(v)
	case float64:
		return parseFloat(v)
	case float32:
		return parseFloat(float64(v))
	case int:
		return check(decimal.NewFromInt(int64(v)))
	case int32:
		return check(decimal.NewFromInt32(v))
	case int64:
		return check(decimal.NewFromInt(v))
	case uint:
		return check(decimal.NewFromUint64(uint64(v)))
	case uint64:
		return check(decimal.NewFromUint64(v))
	default:
		return decimal.Zero, ErrNotNumeric
	}
}

// ParseString strips commas and whitespace and parses what is left.
func ParseString(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, ErrMissing
	}
	if err := Screen(s); err != nil {
		return decimal.Zero, err
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return check(d)
}

// Screen rejects numeric text whose length or exponent is out of range,
// without doing any arbitrary-precision work. Text that passes still has to
// parse; Screen only bounds what parsing it can cost.
func Screen(s string) error {
	if len(s) > MaxLength {
		return ErrTooLong
	}
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return nil
	}
	// A zero mantissa is zero whatever the exponent.
	if strings.Trim(s[:i], "+-.0") == "" {
		return nil
	}

	exp, err := strconv.Atoi(s[i+1:])
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return ErrNotNumeric
		}
		if strings.HasPrefix(s[i+1:], "-") {
			return ErrTooPrecise
		}
		return ErrTooLarge
	}
	// The mantissa shifts the exponent by at most MaxLength digits.
	switch {
	case exp < -(MaxScale + MaxLength):
		return ErrTooPrecise
	case exp > maxExponent+MaxLength:
		return ErrTooLarge
	}
	return nil
}

func parseFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, ErrNotNumeric
	}
	d := decimal.NewFromFloat(f)
	if d.Exponent() < -MaxScale {
		d = d.Round(MaxScale)
	}
	return check(d)
}

func check(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	if d.Exponent() < -MaxScale {
		if d.Exponent() < -(MaxScale + MaxLength) {
			return decimal.Zero, ErrTooPrecise
		}
		// Trailing zeros past the scale are harmless.
		r := d.Round(MaxScale)
		if !r.Equal(d) {
			return decimal.Zero, ErrTooPrecise
		}
		d = r
	}
	if d.Exponent() > maxExponent || d.GreaterThan(MaxMagnitude) {
		return decimal.Zero, ErrTooLarge
	}
	return d, nil
}
