// Package rental implements the rental income model and the multi-year rental
// growth projection.
package rental

import (
	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/refurb"
	"btr_valuation/pkg/models"
)

// Result holds the projected rental income, its expense breakdown, and the
// yield metrics.
//
// Two yield conventions exist in the platform and both are reported under
// distinct names rather than conflated: the single-property report path
// measures yield against total investment (purchase + refurb), while the
// location-analysis path measures against the post-works property value.
type Result struct {
	MonthlyRent float64
	AnnualRent  float64

	ManagementFee float64
	Maintenance   float64
	VoidCost      float64
	Insurance     float64
	ServiceCharge float64 // leasehold only
	GroundRent    float64 // leasehold only
	TotalExpenses float64
	ExpenseRatio  float64 // expenses / gross rent

	NetMonthlyRent float64
	NetAnnualRent  float64

	GrossYieldOnInvestment float64 // gross rent / (purchase + refurb)
	NetYieldOnInvestment   float64
	GrossYieldOnValue      float64 // gross rent / GDV
	NetYieldOnValue        float64

	// Estimated is set when the value basis was degenerate (zero GDV) and the
	// documented default yield was substituted.
	Estimated bool
}

// Model computes rental income over one Settings value.
type Model struct {
	settings *config.Settings
}

// NewModel creates a rental income model.
func NewModel(settings *config.Settings) *Model {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Model{settings: settings}
}

// CalculateIncome projects the rental income for the post-refurbishment
// property. Market data overrides the configured gross yield when supplied.
//
// A zero or missing GDV cannot produce a rent, so the result carries zero
// income at the default yield with Estimated set, rather than failing: live
// valuation data is frequently absent and the report must still render.
func (m *Model) CalculateIncome(property *models.PropertyInfo, gdv *refurb.GDVResult, market *models.RentalMarketData) *Result {
	s := m.settings.Rental

	grossYield := s.GrossYield
	if market != nil && market.GrossYield > 0 {
		grossYield = market.GrossYield
	}

	value := 0.0
	refurbCost := 0.0
	if gdv != nil {
		value = gdv.GDV
		refurbCost = gdv.RefurbCost
	}
	if value <= 0 {
		return &Result{
			GrossYieldOnInvestment: grossYield,
			NetYieldOnInvestment:   grossYield,
			GrossYieldOnValue:      grossYield,
			NetYieldOnValue:        grossYield,
			Estimated:              true,
		}
	}

	annualRent := value * grossYield

	managementFee := annualRent * s.ManagementFeePct
	maintenance := annualRent * s.MaintenancePct
	voidCost := annualRent * (s.VoidMonthsPerYear / 12)
	insurance := value * s.InsurancePct

	serviceCharge := 0.0
	groundRent := 0.0
	if property.IsLeasehold {
		serviceCharge = property.SquareFeet * s.ServiceChargePSF
		groundRent = s.GroundRent
	}

	totalExpenses := managementFee + maintenance + voidCost + insurance + serviceCharge + groundRent
	netAnnualRent := annualRent - totalExpenses

	res := &Result{
		MonthlyRent:       annualRent / 12,
		AnnualRent:        annualRent,
		ManagementFee:     managementFee,
		Maintenance:       maintenance,
		VoidCost:          voidCost,
		Insurance:         insurance,
		ServiceCharge:     serviceCharge,
		GroundRent:        groundRent,
		TotalExpenses:     totalExpenses,
		ExpenseRatio:      totalExpenses / annualRent,
		NetMonthlyRent:    netAnnualRent / 12,
		NetAnnualRent:     netAnnualRent,
		GrossYieldOnValue: grossYield,
		NetYieldOnValue:   netAnnualRent / value,
	}

	totalInvestment := property.PurchasePrice + refurbCost
	if totalInvestment > 0 {
		res.GrossYieldOnInvestment = annualRent / totalInvestment
		res.NetYieldOnInvestment = netAnnualRent / totalInvestment
	} else {
		// No purchase price known yet: fall back to the value basis.
		res.GrossYieldOnInvestment = res.GrossYieldOnValue
		res.NetYieldOnInvestment = res.NetYieldOnValue
		res.Estimated = true
	}

	return res
}
