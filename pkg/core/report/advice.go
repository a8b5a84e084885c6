package report

import (
	"fmt"

	"btr_valuation/pkg/core/score"
)

// buildAdvice produces the deterministic recommendation block from the
// scored report. Every sentence is derived from a number already in the
// report; no external calls.
func buildAdvice(r *Report) Advice {
	var a Advice

	switch r.Score.Category {
	case score.Excellent:
		a.Recommendation = "Strong buy-to-rent candidate. The location and financials both support investment."
	case score.Good, score.AboveAverage:
		a.Recommendation = "Solid buy-to-rent candidate. Worth pursuing subject to survey and local due diligence."
	case score.Average:
		a.Recommendation = "Marginal candidate. The numbers work but leave little headroom; negotiate on price."
	case score.BelowAverage, score.Poor:
		a.Recommendation = "Weak candidate at the asking price. Only proceed with a significant discount."
	default:
		a.Recommendation = "Not recommended. Both location and financial indicators are below investment thresholds."
	}

	if rent := r.Appraisal.Rental; rent != nil {
		if rent.Estimated {
			a.Commentary = append(a.Commentary,
				"Rental figures are estimated from configured defaults; local letting evidence was unavailable.")
		}
		a.Commentary = append(a.Commentary, fmt.Sprintf(
			"Projected rent is £%.0f per month (£%.0f net after expenses), a %.1f%% net yield on total investment.",
			rent.MonthlyRent, rent.NetMonthlyRent, rent.NetYieldOnInvestment*100))
	}

	p := r.Appraisal.Profit
	if p.TargetMet {
		a.Commentary = append(a.Commentary, fmt.Sprintf(
			"The development appraisal meets the %.0f%% profit-on-cost target (%.1f%% achieved).",
			r.MaxPrice.TargetProfit*100, p.ProfitOnCost*100))
	} else {
		a.Commentary = append(a.Commentary, fmt.Sprintf(
			"Profit on cost is %.1f%%, below the %.0f%% target. The maximum price supporting the target is £%.0f.",
			p.ProfitOnCost*100, r.MaxPrice.TargetProfit*100, r.MaxPrice.MaxPurchasePrice))
	}

	if r.Scenarios != nil && r.Scenarios.BestScenario != "" {
		a.Renovation = append(a.Renovation, fmt.Sprintf(
			"Best returning strategy: %s at %.1f%% profit on cost.",
			r.Scenarios.BestScenario, r.Scenarios.BestProfitOnCost*100))
	}
	if f, ok := r.SimpleScore.Factors["renovation"]; ok && !f.Estimated && f.Value >= 11 {
		a.Renovation = append(a.Renovation,
			"Local EPC certificates show substantial efficiency headroom; an energy retrofit should be costed alongside cosmetic works.")
	}

	return a
}
