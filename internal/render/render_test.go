package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInteger(t *testing.T) {
	assert.Equal(t, "210,000", Integer(210000))
	assert.Equal(t, "98,600", Integer(98600.25))
	assert.Equal(t, "1,235", Integer(1234.5))
	assert.Equal(t, "0", Integer(0.4))
	assert.Equal(t, "0", Integer(-0.4))
	assert.Equal(t, "-1,500", Integer(-1500))
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "0.08", Fixed(0.0825))
	assert.Equal(t, "1,234.50", Fixed(1234.5))
	assert.Equal(t, "0.00", Fixed(0.001))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "$800", Currency(800))
	assert.Equal(t, "$4,437,011.25", Currency(4437011.25))
	assert.Equal(t, "-$800", Currency(-800))
	assert.Equal(t, "$0", Currency(0.001))
	assert.Equal(t, "$5,000.10", Currency(5000.1))
	assert.Equal(t, "$12.50", Money(decimal.RequireFromString("12.5")))
}

func TestPercentAndRate(t *testing.T) {
	assert.Equal(t, "72%", Percent(72.2346))
	assert.Equal(t, "0%", Percent(0))
	assert.Equal(t, "60%", Rate(60))
	assert.Equal(t, "2.5%", Rate(2.5))
}

func TestWrite_AlignsColumns(t *testing.T) {
	out := String(
		Section{
			Title:  "Summary Output",
			Header: []string{"Output Metric", "Value"},
			Rows: [][]string{
				{"Total Annual Referral Volume", "210,000"},
				{"Total Easy Referrals", "126,000"},
			},
		},
		Section{Title: "Second", Rows: [][]string{{"a", "b"}}},
	)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "Summary Output", lines[0])
	assert.Equal(t, strings.Repeat("=", len("Summary Output")), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Output Metric"))
	assert.Equal(t, strings.Index(lines[3], "210,000"), strings.Index(lines[4], "126,000"))
	assert.Contains(t, out, "\nSecond\n======\n")
}
