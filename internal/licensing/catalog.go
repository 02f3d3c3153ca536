// Package licensing computes the annual licensing expense of a referral
// program from a configurable catalog of cost lines.
package licensing

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Simplici0/referral-roi/internal/payload"
)

// CoordinatorsField is the request field carrying the coordinator count.
const CoordinatorsField = "referral_coordinators"

// TotalLabel is the response key of the summed expense.
const TotalLabel = "Total Licensing Expense"

const monthsPerYear = 12

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// LineItem describes one licensed product. The key is the request field
// holding its unit cost; the label is the response key of its annual amount.
type LineItem struct {
	Key                 string `json:"key"`
	Label               string `json:"label"`
	ScaleByCoordinators bool   `json:"scale_by_coordinators"`
	Annualize           bool   `json:"annualize"`
	Position            int    `json:"position"`
	Active              bool   `json:"active"`
}

// Validate reports every problem with the line definition.
func (li LineItem) Validate() error {
	var problems []payload.FieldError
	switch {
	case !keyPattern.MatchString(li.Key):
		problems = append(problems, payload.FieldError{Field: "key", Reason: "must contain only lowercase letters, digits and underscores"})
	case li.Key == CoordinatorsField:
		problems = append(problems, payload.FieldError{Field: "key", Reason: "is reserved"})
	}
	switch label := strings.TrimSpace(li.Label); {
	case label == "":
		problems = append(problems, payload.FieldError{Field: "label", Reason: "is required"})
	case label == TotalLabel:
		problems = append(problems, payload.FieldError{Field: "label", Reason: "is reserved"})
	}
	if li.Position < 0 {
		problems = append(problems, payload.FieldError{Field: "position", Reason: "must be greater than or equal to 0"})
	}

	if len(problems) > 0 {
		return &payload.ValidationError{Problems: problems}
	}
	return nil
}

// DefaultCatalog returns the lines the service ships with.
func DefaultCatalog() []LineItem {
	return []LineItem{
		{Key: "hcls_monthly", Label: "HCLS-SM Professional v3 - Fulfiller", ScaleByCoordinators: true, Annualize: true, Position: 10, Active: true},
		{Key: "assists_monthly", Label: "Assists - Fulfiller", ScaleByCoordinators: true, Annualize: true, Position: 20, Active: true},
		{Key: "docintel_monthly", Label: "Document Intelligence 100K Pages", Annualize: true, Position: 30, Active: true},
		{Key: "workflow_standard_yearly", Label: "Workflow Data Fabric Standard 5K Pages", Position: 40, Active: true},
		{Key: "workflow_pro_yearly", Label: "Workflow Data Fabric Pro V3 100K Pages", Position: 50, Active: true},
	}
}

// active returns the active lines of catalog ordered by position. Ties keep
// their catalog order.
func active(catalog []LineItem) []LineItem {
	lines := make([]LineItem, 0, len(catalog))
	for _, li := range catalog {
		if li.Active {
			lines = append(lines, li)
		}
	}
	slices.SortStableFunc(lines, func(a, b LineItem) int { return a.Position - b.Position })
	return lines
}

// Fields returns the request fields a licensing calculation over catalog
// requires: the coordinator count followed by one cost per active line.
func Fields(catalog []LineItem) []string {
	lines := active(catalog)
	fields := make([]string, 0, len(lines)+1)
	fields = append(fields, CoordinatorsField)
	for _, li := range lines {
		fields = append(fields, li.Key)
	}
	return fields
}
