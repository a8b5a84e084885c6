package finance

// PurchaseCostResult breaks down the cost of buying a property.
type PurchaseCostResult struct {
	PurchasePrice       float64
	LegalCosts          float64
	SurveyCosts         float64
	StampDuty           float64
	TotalPurchaseCosts  float64 // price + all transaction costs
	TransactionCostsPct float64 // transaction costs / price
}

// PurchaseCosts calculates the full cost of acquiring a property at the given
// price: legal fees (percentage with a floor), survey, and SDLT including the
// investor surcharge.
func (m *Model) PurchaseCosts(price float64) PurchaseCostResult {
	t := m.Settings.Transaction

	legal := price * t.PurchaseLegalPct
	if legal < t.PurchaseLegalMin {
		legal = t.PurchaseLegalMin
	}
	sdlt := m.StampDuty(price)
	costs := legal + t.Survey + sdlt

	pct := 0.0
	if price > 0 {
		pct = costs / price
	}

	return PurchaseCostResult{
		PurchasePrice:       price,
		LegalCosts:          legal,
		SurveyCosts:         t.Survey,
		StampDuty:           sdlt,
		TotalPurchaseCosts:  price + costs,
		TransactionCostsPct: pct,
	}
}

// SellingCostResult breaks down the cost of disposing of a property.
type SellingCostResult struct {
	AgentFee          float64
	LegalCosts        float64
	TotalSellingCosts float64
	SellingCostsPct   float64
}

// SellingCosts calculates agent and legal fees on a sale at the given GDV.
func (m *Model) SellingCosts(gdv float64) SellingCostResult {
	t := m.Settings.Transaction

	agentFee := gdv * t.SellingAgentPct
	legal := gdv * t.SellingLegalPct
	if legal < t.SellingLegalMin {
		legal = t.SellingLegalMin
	}
	total := agentFee + legal

	pct := 0.0
	if gdv > 0 {
		pct = total / gdv
	}

	return SellingCostResult{
		AgentFee:          agentFee,
		LegalCosts:        legal,
		TotalSellingCosts: total,
		SellingCostsPct:   pct,
	}
}
