package appraisal

import (
	"math"

	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/models"
)

const (
	maxPriceIterations = 10
	// Convergence tolerance on profit-on-cost, in absolute terms (0.5pp).
	maxPriceTolerance = 0.005
	// £/sqft fallback guess when no asking price is known.
	initialGuessPSF = 400
)

// MaxPriceResult is the outcome of the break-even search.
type MaxPriceResult struct {
	MaxPurchasePrice float64
	TargetProfit     float64
	AchievedProfit   float64 // profit-on-cost at MaxPurchasePrice
	GDV              float64
	TotalCosts       float64
	Profit           float64
	Converged        bool
	Iterations       int
}

// MaxPurchasePrice binary-searches the highest purchase price that still
// achieves the target profit-on-cost, re-running the full appraisal pipeline
// at each trial price.
//
// The pipeline is monotonic in price (a lower price raises profit-on-cost),
// so the search brackets [0, 2x initial guess] and halves for at most ten
// iterations. If the tolerance is not reached within the cap, the best point
// found so far is returned with Converged false rather than an error.
func (a *Appraiser) MaxPurchasePrice(property *models.PropertyInfo, key config.ScenarioKey, targetProfit float64, opts Options) (*MaxPriceResult, error) {
	if targetProfit <= 0 {
		targetProfit = a.settings.TargetProfitOnCost
	}

	initialPrice := property.PurchasePrice
	if initialPrice <= 0 {
		initialPrice = property.SquareFeet * initialGuessPSF
	}

	trial := *property
	minPrice := 0.0
	maxPrice := initialPrice * 2
	price := initialPrice

	var (
		result     *Result
		achieved   float64
		best       *MaxPriceResult
		bestDelta  = math.Inf(1)
		iterations int
		converged  bool
	)

	for i := 0; i < maxPriceIterations; i++ {
		iterations = i + 1
		trial.PurchasePrice = price

		res, err := a.Appraise(&trial, key, opts)
		if err != nil {
			return nil, err
		}
		result = res
		achieved = res.Profit.ProfitOnCost

		if delta := math.Abs(achieved - targetProfit); delta < bestDelta {
			bestDelta = delta
			best = &MaxPriceResult{
				MaxPurchasePrice: price,
				TargetProfit:     targetProfit,
				AchievedProfit:   achieved,
				GDV:              result.GDV.GDV,
				TotalCosts:       result.Profit.TotalCosts,
				Profit:           result.Profit.Profit,
			}
		}

		if math.Abs(achieved-targetProfit) < maxPriceTolerance {
			converged = true
			break
		}
		if achieved > targetProfit {
			// Margin is rich: we can afford to pay more.
			minPrice = price
			price = (price + maxPrice) / 2
		} else {
			maxPrice = price
			price = (price + minPrice) / 2
		}
	}

	best.Converged = converged
	best.Iterations = iterations
	return best, nil
}
