// Package referral computes labor-hour savings and revenue impact for an
// AI-assisted referral program.
package referral

// TierInput holds the per-tier parameters of an efficiency calculation.
// Percentages are expressed on a 0-100 scale.
type TierInput struct {
	DistributionPct   float64
	EfficiencyGainPct float64
	BaselineTouchPct  float64
	BaselineHours     float64
	AITouchPct        float64
}

// EfficiencyInput represents the inputs of the annual labor cost saved
// calculation. Distribution percentages are expected to sum to 100 but this
// is not enforced.
type EfficiencyInput struct {
	Coordinators            float64
	AvgVolumePerCoordinator float64
	LoadedLaborCostPerHour  float64
	Easy                    TierInput
	Moderate                TierInput
	Complex                 TierInput
}

// Tier returns the parameters for t.
func (in EfficiencyInput) Tier(t Tier) TierInput {
	switch t {
	case Moderate:
		return in.Moderate
	case Complex:
		return in.Complex
	}
	return in.Easy
}

// Efficiency contains every intermediate and roll-up value of the
// calculation. Per-tier hour figures are per referral; labor hours are
// annual totals across all referrals.
type Efficiency struct {
	AnnualReferralVolume   float64 `json:"annual_referral_volume"`
	TotalEasyReferrals     float64 `json:"total_easy_referrals"`
	TotalModerateReferrals float64 `json:"total_moderate_referrals"`
	TotalComplexReferrals  float64 `json:"total_complex_referrals"`

	BaselineHours          ByTier  `json:"baseline_hours"`
	BaselineHoursTotal     float64 `json:"baseline_hours_total"`
	BaselineTouchTimePct   ByTier  `json:"baseline_touch_time_pct"`
	BaselineWorkHours      ByTier  `json:"baseline_work_hours"`
	BaselineTotalWorkHours float64 `json:"baseline_total_work_hours"`

	AIProcessingTimes ByTier  `json:"ai_processing_times"`
	AITotalHours      ByTier  `json:"ai_total_hours"`
	AITotalHoursSum   float64 `json:"ai_total_hours_sum"`
	AITouchTimePct    ByTier  `json:"ai_touch_time_pct"`
	AIWorkHours       ByTier  `json:"ai_work_hours"`
	AITotalWorkHours  float64 `json:"ai_total_work_hours"`

	LaborHoursBaseline      float64 `json:"labor_hours_baseline"`
	LaborHoursWithAI        float64 `json:"labor_hours_with_ai"`
	HourReductionPercentage float64 `json:"hour_reduction_percentage"`
	AnnualLaborHoursSaved   float64 `json:"annual_labor_hours_saved"`
	AnnualLaborCostSaved    float64 `json:"annual_labor_cost_saved"`
}

// Referrals returns the annual referral count per tier.
func (e Efficiency) Referrals() ByTier {
	return ByTier{
		Easy:     e.TotalEasyReferrals,
		Moderate: e.TotalModerateReferrals,
		Complex:  e.TotalComplexReferrals,
	}
}

// CalculateEfficiency computes annual labor hours and cost saved by moving
// referral processing from the baseline workflow to the AI-assisted one.
func CalculateEfficiency(in EfficiencyInput) Efficiency {
	volume := in.Coordinators * in.AvgVolumePerCoordinator
	counts := eachTier(func(t Tier) float64 {
		return volume * (in.Tier(t).DistributionPct / 100.0)
	})

	baselineHours := eachTier(func(t Tier) float64 { return in.Tier(t).BaselineHours })
	baselineTouch := eachTier(func(t Tier) float64 { return in.Tier(t).BaselineTouchPct })
	baselineWork := eachTier(func(t Tier) float64 {
		return baselineHours.Get(t) * (baselineTouch.Get(t) / 100.0)
	})

	aiTime := eachTier(func(t Tier) float64 {
		return baselineHours.Get(t) * (1.0 - in.Tier(t).EfficiencyGainPct/100.0)
	})
	aiTouch := eachTier(func(t Tier) float64 { return in.Tier(t).AITouchPct })
	aiWork := eachTier(func(t Tier) float64 {
		return aiTime.Get(t) * (aiTouch.Get(t) / 100.0)
	})

	laborBaseline := eachTier(func(t Tier) float64 { return counts.Get(t) * baselineWork.Get(t) }).Sum()
	laborAI := eachTier(func(t Tier) float64 { return counts.Get(t) * aiWork.Get(t) }).Sum()

	saved := laborBaseline - laborAI
	reduction := 0.0
	if laborBaseline != 0 {
		reduction = saved / laborBaseline * 100.0
	}

	return Efficiency{
		AnnualReferralVolume:   volume,
		TotalEasyReferrals:     counts.Easy,
		TotalModerateReferrals: counts.Moderate,
		TotalComplexReferrals:  counts.Complex,

		BaselineHours:          baselineHours,
		BaselineHoursTotal:     baselineHours.Sum(),
		BaselineTouchTimePct:   baselineTouch,
		BaselineWorkHours:      baselineWork,
		BaselineTotalWorkHours: baselineWork.Sum(),

		AIProcessingTimes: aiTime,
		AITotalHours:      aiTime,
		AITotalHoursSum:   aiTime.Sum(),
		AITouchTimePct:    aiTouch,
		AIWorkHours:       aiWork,
		AITotalWorkHours:  aiWork.Sum(),

		LaborHoursBaseline:      laborBaseline,
		LaborHoursWithAI:        laborAI,
		HourReductionPercentage: reduction,
		AnnualLaborHoursSaved:   saved,
		AnnualLaborCostSaved:    saved * in.LoadedLaborCostPerHour,
	}
}
