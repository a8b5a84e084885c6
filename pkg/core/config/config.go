// Package config holds the engine's immutable configuration: cost benchmarks,
// refurbishment scenarios, finance, rental and transaction settings. Defaults
// follow Knight Frank refurbishment benchmarks and standard UK transaction
// costs. A Settings value is built once and injected into the calculators;
// nothing here is mutated during a request.
package config

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// ScenarioKey identifies a registered refurbishment strategy.
type ScenarioKey string

const (
	CosmeticRefurb ScenarioKey = "cosmetic_refurb"
	LightRefurb    ScenarioKey = "light_refurb"
	MediumRefurb   ScenarioKey = "medium_refurb"
	FullRefurb     ScenarioKey = "full_refurb"
	Extension      ScenarioKey = "extension"
)

// Scenario describes the economics of one refurbishment strategy.
// Exactly one of ValueUpliftPct and ValueUpliftPerSqFt is non-zero.
type Scenario struct {
	Description string   `yaml:"description"`
	CostKeys    []string `yaml:"costs"` // benchmark keys; unit implied by suffix

	ValueUpliftPct     float64 `yaml:"value_uplift_pct"`
	ValueUpliftPerSqFt float64 `yaml:"value_uplift_psf"`
}

// FinanceSettings configures the bridging/development loan model.
type FinanceSettings struct {
	LoanToCost        float64 `yaml:"loan_to_cost" json:"loan_to_cost"`
	InterestRate      float64 `yaml:"interest_rate" json:"interest_rate"` // annual, decimal
	TermMonths        int     `yaml:"term_months" json:"term_months"`
	ArrangementFeePct float64 `yaml:"arrangement_fee_pct" json:"arrangement_fee_pct"`
	ExitFeePct        float64 `yaml:"exit_fee_pct" json:"exit_fee_pct"`
	LegalCosts        float64 `yaml:"legal_costs" json:"legal_costs"`
}

// RentalSettings configures the rental income model.
type RentalSettings struct {
	GrossYield        float64 `yaml:"gross_yield"`
	ManagementFeePct  float64 `yaml:"management_fee_pct"`
	MaintenancePct    float64 `yaml:"maintenance_pct"`
	VoidMonthsPerYear float64 `yaml:"void_months_per_year"`
	InsurancePct      float64 `yaml:"insurance_pct"`
	ServiceChargePSF  float64 `yaml:"service_charge_psf"`
	GroundRent        float64 `yaml:"ground_rent"`
}

// TransactionSettings configures purchase/selling costs and SDLT banding.
type TransactionSettings struct {
	PurchaseLegalPct float64   `yaml:"purchase_legal_pct"`
	PurchaseLegalMin float64   `yaml:"purchase_legal_min"`
	Survey           float64   `yaml:"survey"`
	SDLTThresholds   []float64 `yaml:"sdlt_thresholds"`
	SDLTRates        []float64 `yaml:"sdlt_rates"`
	SDLTSurchargePct float64   `yaml:"sdlt_surcharge_pct"` // on the full price, investor purchases
	SellingAgentPct  float64   `yaml:"selling_agent_pct"`
	SellingLegalPct  float64   `yaml:"selling_legal_pct"`
	SellingLegalMin  float64   `yaml:"selling_legal_min"`
}

// MortgageSettings configures the buy-and-hold mortgage model used by the
// single-property report path.
type MortgageSettings struct {
	LoanToValue  float64 `yaml:"loan_to_value"`
	InterestRate float64 `yaml:"interest_rate"`
	TermYears    int     `yaml:"term_years"`
}

// Settings is the full engine configuration.
type Settings struct {
	CostBenchmarks map[string]float64       `yaml:"cost_benchmarks"`
	Scenarios      map[ScenarioKey]Scenario `yaml:"scenarios"`
	Finance        FinanceSettings          `yaml:"finance"`
	Rental         RentalSettings           `yaml:"rental"`
	Transaction    TransactionSettings      `yaml:"transaction"`
	Mortgage       MortgageSettings         `yaml:"mortgage"`

	// TargetProfitOnCost is the platform viability target (profit / total cost).
	TargetProfitOnCost float64 `yaml:"target_profit_on_cost"`
}

// Defaults returns the standard engine configuration.
func Defaults() *Settings {
	return &Settings{
		CostBenchmarks: map[string]float64{
			"light_refurb_psf":         75,
			"medium_refurb_psf":        120,
			"conversion_psf":           180,
			"new_build_psf":            225,
			"hmo_per_room":             30000,
			"loft_extension_psf":       200,
			"basement_psf":             250,
			"kitchen":                  15000,
			"bathroom":                 7500,
			"rewiring":                 5000,
			"replumbing":               6000,
			"painting_decorating_psf":  12,
			"flooring_psf":             25,
			"windows_per_unit":         800,
			"roof_repair":              8000,
			"new_roof":                 15000,
			"landscaping":              5000,
			"driveway":                 4500,
			"new_boiler":               3500,
			"new_heating_system":       8000,
		},
		Scenarios: map[ScenarioKey]Scenario{
			CosmeticRefurb: {
				Description:    "Cosmetic refurbishment only (painting, decorating, minor works)",
				CostKeys:       []string{"painting_decorating_psf", "flooring_psf"},
				ValueUpliftPct: 0.10,
			},
			LightRefurb: {
				Description:    "Light refurbishment (cosmetic + kitchen/bathroom)",
				CostKeys:       []string{"light_refurb_psf"},
				ValueUpliftPct: 0.15,
			},
			MediumRefurb: {
				Description:    "Medium refurbishment (light + some reconfiguration)",
				CostKeys:       []string{"medium_refurb_psf"},
				ValueUpliftPct: 0.25,
			},
			FullRefurb: {
				Description:    "Full refurbishment (gutting and rebuilding interior)",
				CostKeys:       []string{"conversion_psf"},
				ValueUpliftPct: 0.35,
			},
			Extension: {
				Description:        "Extending the property (e.g. loft conversion, rear extension)",
				CostKeys:           []string{"loft_extension_psf"},
				ValueUpliftPerSqFt: 550,
			},
		},
		Finance: FinanceSettings{
			LoanToCost:        1.0,
			InterestRate:      0.14,
			TermMonths:        12,
			ArrangementFeePct: 0.01,
			ExitFeePct:        0.01,
			LegalCosts:        2000,
		},
		Rental: RentalSettings{
			GrossYield:        0.05,
			ManagementFeePct:  0.10,
			MaintenancePct:    0.10,
			VoidMonthsPerYear: 0.5,
			InsurancePct:      0.005,
			ServiceChargePSF:  3,
			GroundRent:        250,
		},
		Transaction: TransactionSettings{
			PurchaseLegalPct: 0.01,
			PurchaseLegalMin: 1500,
			Survey:           1000,
			SDLTThresholds:   []float64{125000, 250000, 925000, 1500000},
			SDLTRates:        []float64{0.02, 0.05, 0.10, 0.12},
			SDLTSurchargePct: 0.03,
			SellingAgentPct:  0.015,
			SellingLegalPct:  0.005,
			SellingLegalMin:  1000,
		},
		Mortgage: MortgageSettings{
			LoanToValue:  0.75,
			InterestRate: 0.05,
			TermYears:    25,
		},
		TargetProfitOnCost: 0.25,
	}
}

// Load reads settings from a YAML file layered over the defaults. A missing
// file is not an error: defaults are returned unchanged.
func Load(path string) (*Settings, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FinanceOverrides parses a lenient HJSON override file for per-request
// finance settings. Only fields present in the file replace the base values,
// so a two-line override file tweaking the rate is valid.
func FinanceOverrides(path string, base FinanceSettings) (FinanceSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read overrides: %w", err)
	}
	return ApplyFinanceOverrides(data, base)
}

// ApplyFinanceOverrides layers HJSON override content over base settings.
func ApplyFinanceOverrides(data []byte, base FinanceSettings) (FinanceSettings, error) {
	var raw map[string]interface{}
	if err := hjson.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("parse overrides: %w", err)
	}
	out := base
	if v, ok := asFloat(raw["loan_to_cost"]); ok {
		out.LoanToCost = v
	}
	if v, ok := asFloat(raw["interest_rate"]); ok {
		out.InterestRate = v
	}
	if v, ok := asFloat(raw["term_months"]); ok {
		out.TermMonths = int(v)
	}
	if v, ok := asFloat(raw["arrangement_fee_pct"]); ok {
		out.ArrangementFeePct = v
	}
	if v, ok := asFloat(raw["exit_fee_pct"]); ok {
		out.ExitFeePct = v
	}
	if v, ok := asFloat(raw["legal_costs"]); ok {
		out.LegalCosts = v
	}
	return out, nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
