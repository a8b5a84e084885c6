package finance

import (
	"errors"
	"math"
	"testing"

	"btr_valuation/pkg/core/config"
)

const tol = 1e-9

func TestStampDutyInvestorPurchase(t *testing.T) {
	m := NewModel(nil)

	cases := []struct {
		price float64
		want  float64
	}{
		// 2%*125,000 + 5%*5,000 + 3%*130,000
		{130000, 6650},
		// 2%*125,000 + 5%*125,000 + 3%*250,000
		{250000, 16250},
		// Threshold edge: whole first band + surcharge.
		{125000, 2500 + 3750},
		{0, 0},
		{-100, 0},
	}
	for _, c := range cases {
		if got := m.StampDuty(c.price); math.Abs(got-c.want) > tol {
			t.Errorf("StampDuty(%.0f) = %v, want %v", c.price, got, c.want)
		}
	}
}

func TestStampDutyStandardTopBand(t *testing.T) {
	m := NewModel(nil)
	// 2%*125k + 5%*125k + 10%*675k + 12%*575k + 12%*500k above the top threshold
	want := 2500.0 + 6250 + 67500 + 69000 + 60000
	if got := m.StampDutyStandard(2000000); math.Abs(got-want) > tol {
		t.Errorf("StampDutyStandard(2M) = %v, want %v", got, want)
	}
}

func TestAmortizedMonthlyPayment(t *testing.T) {
	// £200,000 at 5% over 25 years: the standard mortgage tables say £1,169.18.
	got := AmortizedMonthlyPayment(200000, 0.05, 300)
	if math.Abs(got-1169.18) > 0.05 {
		t.Errorf("payment = %v, want 1169.18", got)
	}
}

func TestAmortizedMonthlyPaymentZeroRate(t *testing.T) {
	// Zero rate degrades to straight-line, never NaN.
	got := AmortizedMonthlyPayment(120000, 0, 120)
	if math.Abs(got-1000) > tol {
		t.Errorf("zero-rate payment = %v, want 1000", got)
	}
	if AmortizedMonthlyPayment(0, 0.05, 300) != 0 {
		t.Error("zero principal should cost nothing")
	}
	if AmortizedMonthlyPayment(100000, 0.05, 0) != 0 {
		t.Error("zero term should cost nothing")
	}
}

func TestBenchmarkUnknownKey(t *testing.T) {
	m := NewModel(nil)
	if _, err := m.Benchmark("gold_plating_psf"); !errors.Is(err, ErrUnknownBenchmark) {
		t.Errorf("err = %v, want ErrUnknownBenchmark", err)
	}
	v, err := m.Benchmark("kitchen")
	if err != nil || v != 15000 {
		t.Errorf("kitchen benchmark = %v, %v", v, err)
	}
}

func TestPurchaseCosts(t *testing.T) {
	m := NewModel(nil)
	got := m.PurchaseCosts(250000)

	if math.Abs(got.LegalCosts-2500) > tol {
		t.Errorf("legal = %v, want 2500", got.LegalCosts)
	}
	if math.Abs(got.StampDuty-16250) > tol {
		t.Errorf("sdlt = %v, want 16250", got.StampDuty)
	}
	if math.Abs(got.TotalPurchaseCosts-269750) > tol {
		t.Errorf("total = %v, want 269750", got.TotalPurchaseCosts)
	}
}

func TestPurchaseCostsLegalFloor(t *testing.T) {
	m := NewModel(nil)
	// 1% of £100k is below the £1,500 floor.
	got := m.PurchaseCosts(100000)
	if math.Abs(got.LegalCosts-1500) > tol {
		t.Errorf("legal = %v, want floor 1500", got.LegalCosts)
	}

	// Degenerate price: fixed costs only, pct guard holds.
	zero := m.PurchaseCosts(0)
	if zero.TransactionCostsPct != 0 {
		t.Errorf("pct at zero price = %v, want 0", zero.TransactionCostsPct)
	}
}

func TestSellingCosts(t *testing.T) {
	m := NewModel(nil)
	got := m.SellingCosts(287500)
	if math.Abs(got.AgentFee-4312.50) > tol {
		t.Errorf("agent = %v, want 4312.50", got.AgentFee)
	}
	if math.Abs(got.LegalCosts-1437.50) > tol {
		t.Errorf("legal = %v, want 1437.50", got.LegalCosts)
	}
	if math.Abs(got.TotalSellingCosts-5750) > tol {
		t.Errorf("total = %v, want 5750", got.TotalSellingCosts)
	}

	// Legal floor on cheap disposals.
	cheap := m.SellingCosts(100000)
	if math.Abs(cheap.LegalCosts-1000) > tol {
		t.Errorf("cheap legal = %v, want floor 1000", cheap.LegalCosts)
	}
}

func TestFinancingCostsWithOverride(t *testing.T) {
	m := NewModel(nil)
	override := &config.FinanceSettings{
		LoanToCost:        0.7,
		InterestRate:      0.07,
		TermMonths:        12,
		ArrangementFeePct: 0.01,
		ExitFeePct:        0.01,
		LegalCosts:        2000,
	}
	got := m.FinancingCosts(269750, 86250, override)

	if math.Abs(got.TotalProjectCost-356000) > tol {
		t.Errorf("project cost = %v, want 356000", got.TotalProjectCost)
	}
	if math.Abs(got.LoanAmount-249200) > tol {
		t.Errorf("loan = %v, want 249200", got.LoanAmount)
	}
	if math.Abs(got.EquityRequired-106800) > tol {
		t.Errorf("equity = %v, want 106800", got.EquityRequired)
	}
	if math.Abs(got.InterestCost-17444) > tol {
		t.Errorf("interest = %v, want 17444", got.InterestCost)
	}
	// 2492 + 2492 + 2000 + 17444
	if math.Abs(got.TotalFinanceCost-24428) > tol {
		t.Errorf("finance cost = %v, want 24428", got.TotalFinanceCost)
	}
}

func TestFinancingCostsFullLeverageNeedsNoEquity(t *testing.T) {
	m := NewModel(nil) // default LoanToCost 1.0
	got := m.FinancingCosts(269750, 86250, nil)
	if math.Abs(got.EquityRequired) > tol {
		t.Errorf("equity = %v, want 0 at 100%% loan-to-cost", got.EquityRequired)
	}
}

func TestMortgageCosts(t *testing.T) {
	m := NewModel(nil)
	got := m.MortgageCosts(287500)
	if math.Abs(got.LoanAmount-215625) > tol {
		t.Errorf("loan = %v, want 215625", got.LoanAmount)
	}
	if math.Abs(got.Deposit-71875) > tol {
		t.Errorf("deposit = %v, want 71875", got.Deposit)
	}
	if got.MonthlyPayment <= 0 || math.Abs(got.AnnualPayment-12*got.MonthlyPayment) > tol {
		t.Errorf("payments inconsistent: %+v", got)
	}
}
