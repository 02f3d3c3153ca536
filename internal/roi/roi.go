// Package roi dispatches a request document to one of the calculators.
package roi

import (
	"fmt"
	"strings"

	"github.com/Simplici0/referral-roi/internal/licensing"
	"github.com/Simplici0/referral-roi/internal/referral"
	"github.com/Simplici0/referral-roi/internal/render"
)

// Kind names a calculator.
type Kind string

const (
	Efficiency Kind = "efficiency"
	Revenue    Kind = "revenue"
	Licensing  Kind = "licensing"
)

// Kinds lists every calculator.
var Kinds = []Kind{Efficiency, Revenue, Licensing}

// ParseKind resolves a calculator name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown calculator %q", s)
}

// Calculation is a finished result that can be rendered as tables. Results
// also marshal to the JSON response body.
type Calculation interface {
	Sections() []render.Section
}

// Fields returns the request fields kind requires. catalog is only used for
// licensing.
func Fields(kind Kind, catalog []licensing.LineItem) []string {
	switch kind {
	case Efficiency:
		return referral.EfficiencyFields()
	case Revenue:
		return referral.RevenueFields()
	case Licensing:
		return licensing.Fields(catalog)
	}
	return nil
}

// Run parses doc and runs the calculator named by kind. Input problems are
// returned as *payload.ValidationError.
func Run(kind Kind, doc map[string]any, catalog []licensing.LineItem) (Calculation, error) {
	switch kind {
	case Efficiency:
		in, err := referral.ParseEfficiency(doc)
		if err != nil {
			return nil, err
		}
		return referral.CalculateEfficiency(in), nil

	case Revenue:
		in, err := referral.ParseRevenue(doc)
		if err != nil {
			return nil, err
		}
		return referral.CalculateRevenue(in), nil

	case Licensing:
		coordinators, costs, err := licensing.Parse(doc, catalog)
		if err != nil {
			return nil, err
		}
		expense, err := licensing.Calculate(coordinators, costs, catalog)
		if err != nil {
			return nil, fmt.Errorf("calculate licensing: %w", err)
		}
		return expense, nil
	}
	return nil, fmt.Errorf("unknown calculator %q", kind)
}
