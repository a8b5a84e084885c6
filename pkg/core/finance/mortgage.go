package finance

import (
	"math"

	"btr_valuation/pkg/core/config"
)

// AmortizedMonthlyPayment calculates the fixed monthly payment on a standard
// repayment mortgage.
//
// FORMULA: M = P * r * (1+r)^n / ((1+r)^n - 1)
//
// Where r is the monthly rate and n the term in months. A zero interest rate
// degrades to straight-line repayment P/n rather than dividing by zero.
func AmortizedMonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if annualRate == 0 {
		return principal / float64(termMonths)
	}
	r := annualRate / 12
	n := float64(termMonths)
	compound := math.Pow(1+r, n)
	return principal * r * compound / (compound - 1)
}

// MortgageResult holds the buy-and-hold mortgage model outputs used by the
// single-property report path.
type MortgageResult struct {
	LoanAmount     float64
	Deposit        float64
	MonthlyPayment float64
	AnnualPayment  float64
}

// MortgageCosts models a standard BTR repayment mortgage against a property
// value: loan = LTV * value, fixed payment over the configured term.
func (m *Model) MortgageCosts(propertyValue float64) MortgageResult {
	s := m.Settings.Mortgage
	loan := propertyValue * s.LoanToValue
	monthly := AmortizedMonthlyPayment(loan, s.InterestRate, s.TermYears*12)
	return MortgageResult{
		LoanAmount:     loan,
		Deposit:        propertyValue - loan,
		MonthlyPayment: monthly,
		AnnualPayment:  monthly * 12,
	}
}

// FinanceResult holds the bridging/development finance outputs for a project.
type FinanceResult struct {
	TotalProjectCost float64
	LoanAmount       float64
	EquityRequired   float64
	ArrangementFee   float64
	ExitFee          float64
	LegalCosts       float64
	InterestCost     float64
	TotalFinanceCost float64
	FinanceCostPct   float64 // of the loan amount
}

// FinancingCosts calculates development finance for a project: the loan is
// LoanToCost of the total project cost (purchase inc. costs + refurb), fees
// are charged on the loan, and interest is simple over the term. A nil
// override uses the configured defaults.
func (m *Model) FinancingCosts(purchaseTotal, refurbTotal float64, override *config.FinanceSettings) FinanceResult {
	s := m.Settings.Finance
	if override != nil {
		s = *override
	}

	totalProjectCost := purchaseTotal + refurbTotal
	loan := totalProjectCost * s.LoanToCost

	arrangementFee := loan * s.ArrangementFeePct
	exitFee := loan * s.ExitFeePct
	interest := loan * s.InterestRate * (float64(s.TermMonths) / 12)

	totalFinance := arrangementFee + exitFee + s.LegalCosts + interest
	pct := 0.0
	if loan > 0 {
		pct = totalFinance / loan
	}

	return FinanceResult{
		TotalProjectCost: totalProjectCost,
		LoanAmount:       loan,
		EquityRequired:   totalProjectCost - loan,
		ArrangementFee:   arrangementFee,
		ExitFee:          exitFee,
		LegalCosts:       s.LegalCosts,
		InterestCost:     interest,
		TotalFinanceCost: totalFinance,
		FinanceCostPct:   pct,
	}
}
