package licensing

import (
	"github.com/Simplici0/referral-roi/internal/render"
)

// Sections renders the expense as the table shown to users. Annualized
// lines also show the yearly estimate of the entered monthly cost.
func (e Expense) Sections() []render.Section {
	s := render.Section{
		Title:  TotalLabel,
		Header: []string{"Line Item", "Entered", "Yearly Estimate", "Annual Amount"},
		Rows: [][]string{
			{"Number of Referral Coordinators", render.Integer(e.Coordinators.InexactFloat64()), "", ""},
		},
	}
	for _, l := range e.Lines {
		estimate := ""
		if l.Annualized {
			estimate = render.Money(l.UnitCost.Mul(twelve))
		}
		s.Rows = append(s.Rows, []string{l.Label, render.Money(l.UnitCost), estimate, render.Money(l.Amount)})
	}
	s.Rows = append(s.Rows, []string{TotalLabel, "", "", render.Money(e.Total)})
	return []render.Section{s}
}
