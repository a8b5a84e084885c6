package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsAreComplete(t *testing.T) {
	cfg := Defaults()

	for _, key := range []ScenarioKey{CosmeticRefurb, LightRefurb, MediumRefurb, FullRefurb, Extension} {
		s, ok := cfg.Scenarios[key]
		if !ok {
			t.Fatalf("scenario %s missing", key)
		}
		// Exactly one uplift mode per scenario.
		if (s.ValueUpliftPct > 0) == (s.ValueUpliftPerSqFt > 0) {
			t.Errorf("scenario %s must set exactly one uplift mode: %+v", key, s)
		}
		for _, costKey := range s.CostKeys {
			if _, ok := cfg.CostBenchmarks[costKey]; !ok {
				t.Errorf("scenario %s references unregistered benchmark %q", key, costKey)
			}
		}
	}

	if len(cfg.Transaction.SDLTThresholds) != len(cfg.Transaction.SDLTRates) {
		t.Error("SDLT thresholds and rates must pair up")
	}
	if cfg.TargetProfitOnCost != 0.25 {
		t.Errorf("target = %v, want 0.25", cfg.TargetProfitOnCost)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Finance.InterestRate != 0.14 {
		t.Errorf("rate = %v, want default 0.14", cfg.Finance.InterestRate)
	}
}

func TestLoadLayersYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := "finance:\n  loan_to_cost: 0.7\n  interest_rate: 0.07\n  term_months: 12\n  arrangement_fee_pct: 0.01\n  exit_fee_pct: 0.01\n  legal_costs: 2000\ntarget_profit_on_cost: 0.2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Finance.LoanToCost != 0.7 || cfg.TargetProfitOnCost != 0.2 {
		t.Errorf("overrides not applied: %+v", cfg.Finance)
	}
	// Untouched sections keep their defaults.
	if cfg.Rental.GrossYield != 0.05 {
		t.Errorf("rental defaults lost: %v", cfg.Rental.GrossYield)
	}
	if _, ok := cfg.CostBenchmarks["kitchen"]; !ok {
		t.Error("benchmark table lost")
	}
}

func TestApplyFinanceOverridesHJSON(t *testing.T) {
	base := Defaults().Finance
	// Hjson: comments, unquoted keys, no commas.
	data := []byte(`{
		# senior debt terms for this deal
		loan_to_cost: 0.65
		interest_rate: 0.085
	}`)

	got, err := ApplyFinanceOverrides(data, base)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.LoanToCost-0.65) > 1e-9 || math.Abs(got.InterestRate-0.085) > 1e-9 {
		t.Errorf("overrides not applied: %+v", got)
	}
	// Unmentioned fields keep base values.
	if got.TermMonths != base.TermMonths || got.LegalCosts != base.LegalCosts {
		t.Errorf("base values lost: %+v", got)
	}
}

func TestApplyFinanceOverridesBadContent(t *testing.T) {
	base := Defaults().Finance
	if _, err := ApplyFinanceOverrides([]byte("][not even hjson"), base); err == nil {
		t.Error("expected parse error")
	}
}
