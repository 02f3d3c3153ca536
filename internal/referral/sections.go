package referral

import (
	"github.com/Simplici0/referral-roi/internal/render"
)

// Sections renders the efficiency result as the tables shown to users.
func (e Efficiency) Sections() []render.Section {
	referrals := e.Referrals()

	summary := render.Section{
		Title:  "Summary Output",
		Header: []string{"Output Metric", "Value"},
		Rows: [][]string{
			{"Total Annual Referral Volume", render.Integer(e.AnnualReferralVolume)},
		},
	}
	for _, t := range Tiers {
		summary.Rows = append(summary.Rows, []string{"Total " + t.Label() + " Referrals", render.Integer(referrals.Get(t))})
	}

	baseline := render.Section{
		Title:  "Work Hours Summary (Baseline with Touch Time)",
		Header: []string{"Referral Complexity", "Baseline Time (hrs)", "Touch-time %", "Work hrs / referral"},
	}
	aiTime := render.Section{
		Title:  "Referral AI Time (hrs)",
		Header: []string{"Referral Complexity", "AI Time (hrs)"},
	}
	withAI := render.Section{
		Title:  "With AI Automation (with Touch Time)",
		Header: []string{"Referral Complexity", "AI Time (hrs)", "Touch-time %", "Work hrs / referral"},
	}
	for _, t := range Tiers {
		baseline.Rows = append(baseline.Rows, []string{
			t.Label(),
			render.Fixed(e.BaselineHours.Get(t)),
			render.Rate(e.BaselineTouchTimePct.Get(t)),
			render.Fixed(e.BaselineWorkHours.Get(t)),
		})
		aiTime.Rows = append(aiTime.Rows, []string{t.Label(), render.Fixed(e.AIProcessingTimes.Get(t))})
		withAI.Rows = append(withAI.Rows, []string{
			t.Label(),
			render.Fixed(e.AITotalHours.Get(t)),
			render.Rate(e.AITouchTimePct.Get(t)),
			render.Fixed(e.AIWorkHours.Get(t)),
		})
	}
	baseline.Rows = append(baseline.Rows, []string{"Total", render.Fixed(e.BaselineHoursTotal), "", render.Fixed(e.BaselineTotalWorkHours)})
	withAI.Rows = append(withAI.Rows, []string{"Total", render.Fixed(e.AITotalHoursSum), "", render.Fixed(e.AITotalWorkHours)})

	saved := render.Section{
		Title: "Annual Labour Cost Saved",
		Rows: [][]string{
			{"Labor Hours - Baseline", render.Integer(e.LaborHoursBaseline)},
			{"Labor Hours - With AI", render.Integer(e.LaborHoursWithAI)},
			{"Referral Resource Hour Reduction %", render.Percent(e.HourReductionPercentage)},
			{"Annual Labor Hours Saved", render.Integer(e.AnnualLaborHoursSaved)},
			{"Annual Labor Cost Saved ($)", render.Currency(e.AnnualLaborCostSaved)},
		},
	}

	return []render.Section{summary, baseline, aiTime, withAI, saved}
}

// Sections renders the revenue result as the table shown to users.
func (r Revenue) Sections() []render.Section {
	return []render.Section{{
		Title: "Referral AI Revenue Impact",
		Rows: [][]string{
			{"Total Possible Referral Revenue ($)", render.Currency(r.TotalPossibleReferralRevenue)},
			{"Baseline Leakage", render.Integer(r.BaselineLeakage)},
			{"Baseline Completed Visits", render.Integer(r.BaselineCompletedVisits)},
			{"Baseline - Revenue ($)", render.Currency(r.BaselineRevenue)},
			{"Referral AI Leakage", render.Integer(r.AILeakage)},
			{"Referral AI Completed Visits", render.Integer(r.AICompletedVisits)},
			{"Referral AI - Revenue ($)", render.Currency(r.AIRevenue)},
			{"Referral AI Revenue Impact", render.Currency(r.AIRevenueImpact)},
		},
	}}
}
