// Package render formats calculator outputs for display.
package render

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatFloat works on an int64 integer part; larger values go through
// Commaf instead.
const maxGrouped = 1e15

// Integer rounds v to a whole number with en-US digit grouping.
func Integer(v float64) string {
	r := math.Round(v)
	switch {
	case r == 0:
		return "0"
	case math.Abs(r) >= maxGrouped:
		return humanize.Commaf(r)
	}
	return humanize.FormatFloat("#,###.", r)
}

// Fixed formats v with two fraction digits and en-US digit grouping.
func Fixed(v float64) string {
	switch {
	case math.Abs(v) < 0.005:
		return "0.00"
	case math.Abs(v) >= maxGrouped:
		return humanize.Commaf(math.Round(v))
	}
	return humanize.FormatFloat("#,###.##", v)
}

// Currency formats a dollar amount. Whole amounts drop the cents.
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	cents := math.Round(v * 100)
	if cents == 0 {
		return "$0"
	}
	if math.Mod(cents, 100) == 0 {
		return sign + "$" + Integer(v)
	}
	return sign + "$" + Fixed(v)
}

// Money formats an exact decimal dollar amount.
func Money(d decimal.Decimal) string {
	return Currency(d.Round(2).InexactFloat64())
}

// Percent rounds v to a whole percentage.
func Percent(v float64) string {
	return Integer(v) + "%"
}

// Rate prints a user-entered percentage as-is, without rounding.
func Rate(v float64) string {
	s := humanize.Ftoa(v)
	return strings.TrimSuffix(s, ".") + "%"
}
