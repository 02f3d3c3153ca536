package referral

// RevenueInput represents the inputs of the revenue impact calculation.
// Leakage and completed-visit rates are not required to sum to 100.
type RevenueInput struct {
	Opportunity          float64
	Value                float64
	BaselineLeakagePct   float64
	BaselineCompletedPct float64
	AILeakagePct         float64
	AICompletedPct       float64
}

// Revenue contains the baseline and AI-era revenue figures.
type Revenue struct {
	ReferralOpportunity          float64 `json:"referral_opportunity"`
	ReferralValue                float64 `json:"referral_value"`
	TotalPossibleReferralRevenue float64 `json:"total_possible_referral_revenue"`
	BaselineLeakage              float64 `json:"baseline_leakage"`
	BaselineCompletedVisits      float64 `json:"baseline_completed_visits"`
	BaselineRevenue              float64 `json:"baseline_revenue"`
	AILeakage                    float64 `json:"ai_leakage"`
	AICompletedVisits            float64 `json:"ai_completed_visits"`
	AIRevenue                    float64 `json:"ai_revenue"`
	AIRevenueImpact              float64 `json:"ai_revenue_impact"`
}

// CalculateRevenue computes the revenue uplift of AI-era leakage and
// completed-visit rates over the baseline ones.
func CalculateRevenue(in RevenueInput) Revenue {
	baselineCompleted := in.Opportunity * (in.BaselineCompletedPct / 100.0)
	aiCompleted := in.Opportunity * (in.AICompletedPct / 100.0)

	baselineRevenue := baselineCompleted * in.Value
	aiRevenue := aiCompleted * in.Value

	return Revenue{
		ReferralOpportunity:          in.Opportunity,
		ReferralValue:                in.Value,
		TotalPossibleReferralRevenue: in.Opportunity * in.Value,
		BaselineLeakage:              in.Opportunity * (in.BaselineLeakagePct / 100.0),
		BaselineCompletedVisits:      baselineCompleted,
		BaselineRevenue:              baselineRevenue,
		AILeakage:                    in.Opportunity * (in.AILeakagePct / 100.0),
		AICompletedVisits:            aiCompleted,
		AIRevenue:                    aiRevenue,
		AIRevenueImpact:              aiRevenue - baselineRevenue,
	}
}
