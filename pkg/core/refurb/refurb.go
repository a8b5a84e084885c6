// Package refurb implements the refurbishment scenario engine: resolving a
// named scenario's cost components against a property and the cost benchmark
// table, and deriving the post-works Gross Development Value.
package refurb

import (
	"errors"
	"fmt"
	"strings"

	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/finance"
	"btr_valuation/pkg/models"
)

// ErrUnknownScenario is returned when a scenario key is not registered.
var ErrUnknownScenario = errors.New("unknown refurbishment scenario")

const contingencyPct = 0.10

// Professional fees (architects, structural engineers) run higher on
// structural works than on decorative ones.
const (
	professionalFeesMajorPct = 0.12 // full refurb, extension
	professionalFeesMinorPct = 0.05
)

// CustomWork is an extra line item beyond the scenario's standard components,
// priced as benchmark unit price x quantity (e.g. a second kitchen).
type CustomWork struct {
	BenchmarkKey string
	Quantity     float64
}

// CostResult is the refurbishment cost breakdown for one scenario.
type CostResult struct {
	Scenario         config.ScenarioKey
	Description      string
	SquareFeet       float64
	Rooms            int
	Breakdown        map[string]float64 // benchmark key -> £
	Subtotal         float64
	Contingency      float64
	ProfessionalFees float64
	TotalRefurbCost  float64
	CostPerSqFt      float64
}

// Engine resolves scenarios against the benchmark table.
type Engine struct {
	model    *finance.Model
	settings *config.Settings
}

// NewEngine creates a scenario engine over the given settings.
func NewEngine(settings *config.Settings) *Engine {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Engine{model: finance.NewModel(settings), settings: settings}
}

// Scenarios returns the registered scenario keys in a stable order.
func (e *Engine) Scenarios() []config.ScenarioKey {
	return []config.ScenarioKey{
		config.CosmeticRefurb,
		config.LightRefurb,
		config.MediumRefurb,
		config.FullRefurb,
		config.Extension,
	}
}

// CalculateRefurbCost resolves the scenario's cost components against the
// property (per-sqft keys scale by floor area, per-room keys by room count,
// anything else is a fixed amount), adds custom works, then layers 10%
// contingency and professional fees on the subtotal.
func (e *Engine) CalculateRefurbCost(property *models.PropertyInfo, key config.ScenarioKey, customWorks []CustomWork) (*CostResult, error) {
	scenario, ok := e.settings.Scenarios[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, key)
	}

	sqft := property.SquareFeet
	rooms := property.Rooms

	breakdown := make(map[string]float64)
	subtotal := 0.0
	for _, costKey := range scenario.CostKeys {
		unit, err := e.model.Benchmark(costKey)
		if err != nil {
			return nil, err
		}
		cost := unit
		switch {
		case strings.HasSuffix(costKey, "_psf"):
			cost = unit * sqft
		case strings.HasSuffix(costKey, "_per_room"):
			cost = unit * float64(rooms)
		}
		breakdown[costKey] = cost
		subtotal += cost
	}

	for _, work := range customWorks {
		unit, err := e.model.Benchmark(work.BenchmarkKey)
		if err != nil {
			return nil, err
		}
		cost := unit * work.Quantity
		breakdown[work.BenchmarkKey] += cost
		subtotal += cost
	}

	contingency := subtotal * contingencyPct

	feesPct := professionalFeesMinorPct
	if key == config.FullRefurb || key == config.Extension {
		feesPct = professionalFeesMajorPct
	}
	fees := subtotal * feesPct

	total := subtotal + contingency + fees

	return &CostResult{
		Scenario:         key,
		Description:      scenario.Description,
		SquareFeet:       sqft,
		Rooms:            rooms,
		Breakdown:        breakdown,
		Subtotal:         subtotal,
		Contingency:      contingency,
		ProfessionalFees: fees,
		TotalRefurbCost:  total,
		CostPerSqFt:      total / sqft,
	}, nil
}

// GDVResult is the post-refurbishment value estimate.
type GDVResult struct {
	PurchasePrice  float64
	RefurbCost     float64
	GDV            float64
	ValueUplift    float64
	ValueUpliftPct float64
	GDVPerSqFt     float64
}

// CalculateGDV derives the Gross Development Value after the works.
//
// The Extension scenario values added floor area at a fixed £/sqft rate (the
// extension size defaults to 25% of the current area when unspecified); every
// other scenario applies a percentage uplift to the current value. Comparable
// sales evidence, when present, overrides the formula entirely:
// GDV = sqft x avg £/sqft.
func (e *Engine) CalculateGDV(property *models.PropertyInfo, refurb *CostResult, comparables *models.ComparableData) (*GDVResult, error) {
	scenario, ok := e.settings.Scenarios[refurb.Scenario]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, refurb.Scenario)
	}

	price := property.PurchasePrice
	sqft := property.SquareFeet

	var gdv float64
	if refurb.Scenario == config.Extension {
		extensionSqFt := property.ExtensionSquareFeet
		if extensionSqFt <= 0 {
			extensionSqFt = sqft * 0.25
		}
		gdv = price + extensionSqFt*scenario.ValueUpliftPerSqFt
	} else {
		gdv = price * (1 + scenario.ValueUpliftPct)
	}

	if comparables != nil && comparables.AvgPricePerSqFt > 0 {
		gdv = sqft * comparables.AvgPricePerSqFt
	}

	upliftPct := 0.0
	if price > 0 {
		upliftPct = (gdv - price) / price
	}

	return &GDVResult{
		PurchasePrice:  price,
		RefurbCost:     refurb.TotalRefurbCost,
		GDV:            gdv,
		ValueUplift:    gdv - price,
		ValueUpliftPct: upliftPct,
		GDVPerSqFt:     gdv / sqft,
	}, nil
}
