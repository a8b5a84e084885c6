package appraisal

import (
	"math"
	"reflect"
	"testing"

	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/models"
)

const tol = 1e-6

func testProperty(t *testing.T) *models.PropertyInfo {
	t.Helper()
	p, err := models.NewPropertyInfo(250000, 1000, models.Terraced, 3, 1, 5, "M1 1AE")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func seniorDebtSettings() *config.Settings {
	s := config.Defaults()
	s.Finance.LoanToCost = 0.7
	s.Finance.InterestRate = 0.07
	return s
}

func TestAppraiseLightRefurbEndToEnd(t *testing.T) {
	a := New(seniorDebtSettings())
	got, err := a.Appraise(testProperty(t), config.LightRefurb, Options{})
	if err != nil {
		t.Fatal(err)
	}

	// Stage fixtures, each hand-computed:
	// purchase 250,000 + 2,500 legal + 1,000 survey + 16,250 SDLT = 269,750
	if math.Abs(got.Purchase.TotalPurchaseCosts-269750) > tol {
		t.Errorf("purchase = %v, want 269750", got.Purchase.TotalPurchaseCosts)
	}
	if math.Abs(got.Refurb.TotalRefurbCost-86250) > tol {
		t.Errorf("refurb = %v, want 86250", got.Refurb.TotalRefurbCost)
	}
	if math.Abs(got.GDV.GDV-287500) > tol {
		t.Errorf("gdv = %v, want 287500", got.GDV.GDV)
	}
	// loan 249,200; 2,492 + 2,492 + 2,000 + 17,444 interest
	if math.Abs(got.Finance.TotalFinanceCost-24428) > tol {
		t.Errorf("finance = %v, want 24428", got.Finance.TotalFinanceCost)
	}
	if math.Abs(got.Selling.TotalSellingCosts-5750) > tol {
		t.Errorf("selling = %v, want 5750", got.Selling.TotalSellingCosts)
	}

	// 269,750 + 86,250 + 24,428 + 5,750
	if math.Abs(got.Profit.TotalCosts-386178) > tol {
		t.Errorf("total costs = %v, want 386178", got.Profit.TotalCosts)
	}
	if math.Abs(got.Profit.Profit-(287500-386178)) > tol {
		t.Errorf("profit = %v, want -98678", got.Profit.Profit)
	}
	if got.Profit.TargetMet {
		t.Error("a loss-making appraisal cannot meet the target")
	}
	if got.Profit.ROIUndefined {
		t.Error("30% equity in the deal, ROI is defined")
	}
	if got.Rental == nil || got.Rental.AnnualRent <= 0 {
		t.Error("rental leg missing from appraisal")
	}
}

func TestCalculateProfitROISentinel(t *testing.T) {
	// Default settings fund at 100% loan-to-cost: zero equity.
	a := New(nil)
	got, err := a.Appraise(testProperty(t), config.LightRefurb, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Profit.ROIUndefined {
		t.Error("zero equity must set ROIUndefined")
	}
	if !math.IsInf(got.Profit.ROI, 1) {
		t.Errorf("ROI = %v, want +Inf sentinel", got.Profit.ROI)
	}
}

func TestMaxPurchasePriceLowersUntilTargetMet(t *testing.T) {
	a := New(seniorDebtSettings())
	p := testProperty(t)

	// With generous comparables the appraisal is profitable and the search has
	// a root inside the bracket.
	opts := Options{Comparables: &models.ComparableData{AvgPricePerSqFt: 450}}
	got, err := a.MaxPurchasePrice(p, config.LightRefurb, 0, opts)
	if err != nil {
		t.Fatal(err)
	}

	if got.TargetProfit != 0.25 {
		t.Errorf("target = %v, want configured 0.25", got.TargetProfit)
	}
	if got.MaxPurchasePrice < 0 || got.MaxPurchasePrice > 2*p.PurchasePrice {
		t.Errorf("price %v escaped the bracket [0, %v]", got.MaxPurchasePrice, 2*p.PurchasePrice)
	}
	if got.Iterations < 1 || got.Iterations > 10 {
		t.Errorf("iterations = %d, want 1..10", got.Iterations)
	}
	if got.Converged && math.Abs(got.AchievedProfit-got.TargetProfit) >= 0.005 {
		t.Errorf("converged but achieved %v vs target %v", got.AchievedProfit, got.TargetProfit)
	}

	// The reported point must reproduce under a fresh appraisal.
	trial := *p
	trial.PurchasePrice = got.MaxPurchasePrice
	res, err := a.Appraise(&trial, config.LightRefurb, opts)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Profit.ProfitOnCost-got.AchievedProfit) > tol {
		t.Errorf("achieved %v does not reproduce (%v)", got.AchievedProfit, res.Profit.ProfitOnCost)
	}

	// The search leaves the input untouched.
	if p.PurchasePrice != 250000 {
		t.Errorf("input property mutated to %v", p.PurchasePrice)
	}
}

func TestMaxPurchasePriceConvergesAcrossFixtures(t *testing.T) {
	a := New(seniorDebtSettings())

	cases := []struct {
		name     string
		price    float64
		sqft     float64
		ptype    models.PropertyType
		bedrooms int
		scenario config.ScenarioKey
		avgPSF   float64
	}{
		// Each fixture prices comparables so the 25% target has a root
		// strictly inside the [0, 2x asking] bracket.
		{"terraced light refurb", 250000, 1000, models.Terraced, 3, config.LightRefurb, 450},
		{"flat cosmetic refurb", 150000, 600, models.Flat, 2, config.CosmeticRefurb, 400},
		{"detached full refurb", 400000, 1500, models.Detached, 4, config.FullRefurb, 550},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := models.NewPropertyInfo(c.price, c.sqft, c.ptype, c.bedrooms, 1, 5, "M1 1AE")
			if err != nil {
				t.Fatal(err)
			}
			opts := Options{Comparables: &models.ComparableData{AvgPricePerSqFt: c.avgPSF}}

			got, err := a.MaxPurchasePrice(p, c.scenario, 0, opts)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Converged {
				t.Fatalf("did not converge: iterations=%d achieved=%v", got.Iterations, got.AchievedProfit)
			}
			if got.Iterations > 10 {
				t.Errorf("iterations = %d, want <= 10", got.Iterations)
			}
			if math.Abs(got.AchievedProfit-0.25) >= 0.005 {
				t.Errorf("achieved = %v, want within 0.005 of 0.25", got.AchievedProfit)
			}
		})
	}
}

func TestAppraiseIdempotent(t *testing.T) {
	a := New(seniorDebtSettings())
	opts := Options{Comparables: &models.ComparableData{AvgPricePerSqFt: 450}}

	first, err := a.Appraise(testProperty(t), config.LightRefurb, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Appraise(testProperty(t), config.LightRefurb, opts)
	if err != nil {
		t.Fatal(err)
	}

	// Every stage, refurb through profit, must reproduce bit for bit.
	if !reflect.DeepEqual(first.Refurb, second.Refurb) {
		t.Error("refurb stage differs between identical runs")
	}
	if !reflect.DeepEqual(first.GDV, second.GDV) {
		t.Error("gdv stage differs between identical runs")
	}
	if !reflect.DeepEqual(first.Rental, second.Rental) {
		t.Error("rental stage differs between identical runs")
	}
	if !reflect.DeepEqual(first.Profit, second.Profit) {
		t.Error("profit stage differs between identical runs")
	}
}

func TestMaxPurchasePriceNoAskingPriceUsesHeuristic(t *testing.T) {
	a := New(seniorDebtSettings())
	p := testProperty(t)
	p.PurchasePrice = 0

	got, err := a.MaxPurchasePrice(p, config.LightRefurb, 0, Options{})
	if err != nil {
		t.Fatal(err)
	}
	// Bracket comes from sqft x £400.
	if got.MaxPurchasePrice < 0 || got.MaxPurchasePrice > 2*1000*400 {
		t.Errorf("price %v escaped the heuristic bracket", got.MaxPurchasePrice)
	}
}

func TestRunScenarioAnalysisPicksBestByProfitOnCost(t *testing.T) {
	a := New(seniorDebtSettings())
	got, err := a.RunScenarioAnalysis(testProperty(t), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Scenarios) != 5 {
		t.Fatalf("scenarios = %d, want all 5", len(got.Scenarios))
	}

	best := got.Scenarios[0].ProfitOnCost
	for _, s := range got.Scenarios {
		if s.ProfitOnCost > best {
			best = s.ProfitOnCost
		}
		if s.Scenario == got.BestScenario && math.Abs(s.ProfitOnCost-got.BestProfitOnCost) > tol {
			t.Errorf("best profit mismatch: %v vs %v", s.ProfitOnCost, got.BestProfitOnCost)
		}
	}
	if math.Abs(best-got.BestProfitOnCost) > tol {
		t.Errorf("best = %v, want max %v", got.BestProfitOnCost, best)
	}
}

func TestRunScenarioAnalysisSubset(t *testing.T) {
	a := New(seniorDebtSettings())
	keys := []config.ScenarioKey{config.CosmeticRefurb, config.Extension}
	got, err := a.RunScenarioAnalysis(testProperty(t), keys, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Scenarios) != 2 {
		t.Errorf("scenarios = %d, want 2", len(got.Scenarios))
	}
}
