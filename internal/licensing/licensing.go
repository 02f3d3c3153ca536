package licensing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/referral-roi/internal/payload"
)

var (
	// ErrMissingCost is returned when a catalog line has no unit cost.
	ErrMissingCost = errors.New("missing unit cost")
	// ErrDuplicateLabel is returned when two active lines share a label.
	ErrDuplicateLabel = errors.New("duplicate line label")
)

var twelve = decimal.NewFromInt(monthsPerYear)

// Amount returns the annual amount of the line for the given unit cost.
func (li LineItem) Amount(unitCost, coordinators decimal.Decimal) decimal.Decimal {
	amount := unitCost
	if li.ScaleByCoordinators {
		amount = amount.Mul(coordinators)
	}
	if li.Annualize {
		amount = amount.Mul(twelve)
	}
	return amount
}

// Line is one computed row of an expense.
type Line struct {
	Key        string
	Label      string
	UnitCost   decimal.Decimal
	Annualized bool
	Amount     decimal.Decimal
}

// Expense is the result of a licensing calculation.
type Expense struct {
	Coordinators decimal.Decimal
	Lines        []Line
	Total        decimal.Decimal
}

// MarshalJSON writes the expense as an object mapping each line label to
// its annual amount, in line order, followed by the total.
func (e Expense) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, l := range e.Lines {
		if err := writeMember(&buf, l.Label, l.Amount); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
	}
	if err := writeMember(&buf, TotalLabel, e.Total); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, label string, amount decimal.Decimal) error {
	key, err := json.Marshal(label)
	if err != nil {
		return fmt.Errorf("encode label %q: %w", label, err)
	}
	buf.Write(key)
	buf.WriteByte(':')
	buf.WriteString(amount.String())
	return nil
}

// Parse validates doc against the request fields of catalog and returns the
// coordinator count and the unit cost of every active line, keyed by line key.
func Parse(doc map[string]any, catalog []LineItem) (decimal.Decimal, map[string]decimal.Decimal, error) {
	schema, err := payload.NewSchema(Fields(catalog)...)
	if err != nil {
		return decimal.Zero, nil, err
	}

	rec, err := schema.Decode(doc)
	if err != nil {
		return decimal.Zero, nil, err
	}

	costs := make(map[string]decimal.Decimal, len(rec)-1)
	for field, v := range rec {
		if field != CoordinatorsField {
			costs[field] = v
		}
	}
	return rec.Decimal(CoordinatorsField), costs, nil
}

// Calculate computes the annual amount of every active catalog line and
// their total.
func Calculate(coordinators decimal.Decimal, costs map[string]decimal.Decimal, catalog []LineItem) (Expense, error) {
	lines := active(catalog)

	expense := Expense{
		Coordinators: coordinators,
		Lines:        make([]Line, 0, len(lines)),
		Total:        decimal.Zero,
	}
	seen := make(map[string]bool, len(lines))
	for _, li := range lines {
		if seen[li.Label] {
			return Expense{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, li.Label)
		}
		seen[li.Label] = true

		unit, ok := costs[li.Key]
		if !ok {
			return Expense{}, fmt.Errorf("%w: %s", ErrMissingCost, li.Key)
		}

		amount := li.Amount(unit, coordinators)
		expense.Lines = append(expense.Lines, Line{
			Key:        li.Key,
			Label:      li.Label,
			UnitCost:   unit,
			Annualized: li.Annualize,
			Amount:     amount,
		})
		expense.Total = expense.Total.Add(amount)
	}
	return expense, nil
}
