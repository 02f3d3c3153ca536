package referral

import (
	"github.com/Simplici0/referral-roi/internal/payload"
)

// Request field names of the efficiency exchange.
const (
	FieldCoordinators            = "num_referral_coordinators"
	FieldAvgVolumePerCoordinator = "avg_annual_referral_volume_per_coordinator"
	FieldLoadedLaborCostPerHour  = "loaded_labor_cost_per_hour"
)

// Request field names of the revenue exchange.
const (
	FieldOpportunity          = "referral_opportunity"
	FieldValue                = "referral_value"
	FieldBaselineLeakagePct   = "baseline_leakage_rate_pct"
	FieldBaselineCompletedPct = "baseline_completed_visit_rate_pct"
	FieldAILeakagePct         = "ai_leakage_rate_pct"
	FieldAICompletedPct       = "ai_completed_visit_rate_pct"
)

// TierFields names the per-tier request fields for one tier.
type TierFields struct {
	Distribution   string
	EfficiencyGain string
	BaselineTouch  string
	BaselineHours  string
	AITouch        string
}

// FieldsFor returns the request field names for t.
func FieldsFor(t Tier) TierFields {
	name := string(t)
	return TierFields{
		Distribution:   "distribution_" + name + "_pct",
		EfficiencyGain: name + "_efficiency_gain",
		BaselineTouch:  "touch_time_" + name + "_pct",
		BaselineHours:  "baseline_time_" + name + "_hrs",
		AITouch:        "referral_complexity_touch_time_" + name,
	}
}

var (
	efficiencySchema = payload.MustSchema(efficiencyFields()...)
	revenueSchema    = payload.MustSchema(
		FieldOpportunity,
		FieldValue,
		FieldBaselineLeakagePct,
		FieldBaselineCompletedPct,
		FieldAILeakagePct,
		FieldAICompletedPct,
	)
)

func efficiencyFields() []string {
	fields := []string{FieldCoordinators, FieldAvgVolumePerCoordinator}
	for _, t := range Tiers {
		fields = append(fields, FieldsFor(t).Distribution)
	}
	fields = append(fields, FieldLoadedLaborCostPerHour)
	for _, t := range Tiers {
		fields = append(fields, FieldsFor(t).EfficiencyGain)
	}
	for _, t := range Tiers {
		fields = append(fields, FieldsFor(t).BaselineTouch)
	}
	for _, t := range Tiers {
		fields = append(fields, FieldsFor(t).BaselineHours)
	}
	for _, t := range Tiers {
		fields = append(fields, FieldsFor(t).AITouch)
	}
	return fields
}

// EfficiencyFields returns the required request fields of the efficiency
// exchange.
func EfficiencyFields() []string { return efficiencySchema.Fields() }

// RevenueFields returns the required request fields of the revenue exchange.
func RevenueFields() []string { return revenueSchema.Fields() }

// ParseEfficiency validates doc and builds an EfficiencyInput from it.
func ParseEfficiency(doc map[string]any) (EfficiencyInput, error) {
	rec, err := efficiencySchema.Decode(doc)
	if err != nil {
		return EfficiencyInput{}, err
	}

	tier := func(t Tier) TierInput {
		f := FieldsFor(t)
		return TierInput{
			DistributionPct:   rec.Float(f.Distribution),
			EfficiencyGainPct: rec.Float(f.EfficiencyGain),
			BaselineTouchPct:  rec.Float(f.BaselineTouch),
			BaselineHours:     rec.Float(f.BaselineHours),
			AITouchPct:        rec.Float(f.AITouch),
		}
	}

	return EfficiencyInput{
		Coordinators:            rec.Float(FieldCoordinators),
		AvgVolumePerCoordinator: rec.Float(FieldAvgVolumePerCoordinator),
		LoadedLaborCostPerHour:  rec.Float(FieldLoadedLaborCostPerHour),
		Easy:                    tier(Easy),
		Moderate:                tier(Moderate),
		Complex:                 tier(Complex),
	}, nil
}

// ParseRevenue validates doc and builds a RevenueInput from it.
func ParseRevenue(doc map[string]any) (RevenueInput, error) {
	rec, err := revenueSchema.Decode(doc)
	if err != nil {
		return RevenueInput{}, err
	}

	return RevenueInput{
		Opportunity:          rec.Float(FieldOpportunity),
		Value:                rec.Float(FieldValue),
		BaselineLeakagePct:   rec.Float(FieldBaselineLeakagePct),
		BaselineCompletedPct: rec.Float(FieldBaselineCompletedPct),
		AILeakagePct:         rec.Float(FieldAILeakagePct),
		AICompletedPct:       rec.Float(FieldAICompletedPct),
	}, nil
}
