package appraisal

import (
	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/models"
)

// ScenarioSummary is the comparison row for one refurbishment strategy.
type ScenarioSummary struct {
	Scenario     config.ScenarioKey `json:"scenario"`
	Description  string             `json:"description"`
	RefurbCost   float64            `json:"refurb_cost"`
	TotalCosts   float64            `json:"total_costs"`
	GDV          float64            `json:"gdv"`
	Profit       float64            `json:"profit"`
	ProfitOnCost float64            `json:"profit_on_cost"`
	ROI          float64            `json:"roi"`
	MonthlyRent  float64            `json:"monthly_rent"`
	NetYield     float64            `json:"net_yield"` // on total investment
	TargetMet    bool               `json:"target_met"`
}

// ScenarioAnalysis compares every requested scenario for one property.
type ScenarioAnalysis struct {
	Scenarios        []ScenarioSummary  `json:"scenarios"`
	BestScenario     config.ScenarioKey `json:"best_scenario"`
	BestProfitOnCost float64            `json:"best_profit_on_cost"`
}

// RunScenarioAnalysis appraises the property under each scenario (all
// registered scenarios when keys is empty) and identifies the best by
// profit-on-cost.
func (a *Appraiser) RunScenarioAnalysis(property *models.PropertyInfo, keys []config.ScenarioKey, opts Options) (*ScenarioAnalysis, error) {
	if len(keys) == 0 {
		keys = a.refurb.Scenarios()
	}

	analysis := &ScenarioAnalysis{}
	for _, key := range keys {
		res, err := a.Appraise(property, key, opts)
		if err != nil {
			return nil, err
		}
		summary := ScenarioSummary{
			Scenario:     key,
			Description:  res.Refurb.Description,
			RefurbCost:   res.Refurb.TotalRefurbCost,
			TotalCosts:   res.Profit.TotalCosts,
			GDV:          res.GDV.GDV,
			Profit:       res.Profit.Profit,
			ProfitOnCost: res.Profit.ProfitOnCost,
			ROI:          res.Profit.ROI,
			MonthlyRent:  res.Rental.MonthlyRent,
			NetYield:     res.Rental.NetYieldOnInvestment,
			TargetMet:    res.Profit.TargetMet,
		}
		analysis.Scenarios = append(analysis.Scenarios, summary)

		if analysis.BestScenario == "" || summary.ProfitOnCost > analysis.BestProfitOnCost {
			analysis.BestScenario = key
			analysis.BestProfitOnCost = summary.ProfitOnCost
		}
	}
	return analysis, nil
}
