// Package appraisal aggregates the cost, GDV, finance, rental and selling
// calculations into a full development appraisal: total cost, profit metrics,
// the maximum justifiable purchase price for a target margin, and side-by-side
// scenario comparison.
package appraisal

import (
	"math"

	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/finance"
	"btr_valuation/pkg/core/refurb"
	"btr_valuation/pkg/core/rental"
	"btr_valuation/pkg/models"
)

// ProfitResult holds the profitability metrics of one appraisal.
type ProfitResult struct {
	TotalCosts   float64
	Profit       float64
	ProfitOnCost float64
	ProfitOnGDV  float64

	// ROI is profit over equity required. When the project needs no equity
	// (100% loan-to-cost) the ratio is undefined; ROIUndefined is set and ROI
	// carries +Inf so callers can still order results.
	ROI          float64
	ROIUndefined bool

	TargetMet bool
}

// Result is a complete development appraisal for one property and scenario.
type Result struct {
	Scenario config.ScenarioKey

	Purchase finance.PurchaseCostResult
	Refurb   *refurb.CostResult
	GDV      *refurb.GDVResult
	Finance  finance.FinanceResult
	Selling  finance.SellingCostResult
	Rental   *rental.Result
	Profit   ProfitResult
}

// Options tunes one appraisal run. All fields optional.
type Options struct {
	Comparables *models.ComparableData
	Market      *models.RentalMarketData
	Finance     *config.FinanceSettings
	CustomWorks []refurb.CustomWork
}

// Appraiser runs the full calculation pipeline. It holds only read-only
// configuration, so one instance serves concurrent requests.
type Appraiser struct {
	settings *config.Settings
	fin      *finance.Model
	refurb   *refurb.Engine
	rental   *rental.Model
}

// New creates an appraiser over the given settings (nil for defaults).
func New(settings *config.Settings) *Appraiser {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Appraiser{
		settings: settings,
		fin:      finance.NewModel(settings),
		refurb:   refurb.NewEngine(settings),
		rental:   rental.NewModel(settings),
	}
}

// Settings exposes the injected configuration.
func (a *Appraiser) Settings() *config.Settings { return a.settings }

// Appraise runs purchase -> refurb -> GDV -> finance -> selling -> profit and
// the rental income model for one property and scenario.
func (a *Appraiser) Appraise(property *models.PropertyInfo, key config.ScenarioKey, opts Options) (*Result, error) {
	purchase := a.fin.PurchaseCosts(property.PurchasePrice)

	refurbRes, err := a.refurb.CalculateRefurbCost(property, key, opts.CustomWorks)
	if err != nil {
		return nil, err
	}
	gdvRes, err := a.refurb.CalculateGDV(property, refurbRes, opts.Comparables)
	if err != nil {
		return nil, err
	}

	financeRes := a.fin.FinancingCosts(purchase.TotalPurchaseCosts, refurbRes.TotalRefurbCost, opts.Finance)
	sellingRes := a.fin.SellingCosts(gdvRes.GDV)
	profit := a.CalculateProfit(purchase, refurbRes, gdvRes.GDV, financeRes, sellingRes)
	rentalRes := a.rental.CalculateIncome(property, gdvRes, opts.Market)

	return &Result{
		Scenario: key,
		Purchase: purchase,
		Refurb:   refurbRes,
		GDV:      gdvRes,
		Finance:  financeRes,
		Selling:  sellingRes,
		Rental:   rentalRes,
		Profit:   profit,
	}, nil
}

// CalculateProfit aggregates the stage results into profit metrics.
func (a *Appraiser) CalculateProfit(purchase finance.PurchaseCostResult, refurbRes *refurb.CostResult, gdv float64, financeRes finance.FinanceResult, selling finance.SellingCostResult) ProfitResult {
	totalCosts := purchase.TotalPurchaseCosts +
		refurbRes.TotalRefurbCost +
		financeRes.TotalFinanceCost +
		selling.TotalSellingCosts

	profit := gdv - totalCosts

	profitOnCost := 0.0
	if totalCosts > 0 {
		profitOnCost = profit / totalCosts
	}
	profitOnGDV := 0.0
	if gdv > 0 {
		profitOnGDV = profit / gdv
	}

	roi := 0.0
	roiUndefined := false
	if financeRes.EquityRequired > 0 {
		roi = profit / financeRes.EquityRequired
	} else {
		// 100% funding: return on zero equity is unbounded.
		roi = math.Inf(1)
		roiUndefined = true
	}

	return ProfitResult{
		TotalCosts:   totalCosts,
		Profit:       profit,
		ProfitOnCost: profitOnCost,
		ProfitOnGDV:  profitOnGDV,
		ROI:          roi,
		ROIUndefined: roiUndefined,
		TargetMet:    profitOnCost >= a.settings.TargetProfitOnCost,
	}
}
