package rental

import "math"

// ForecastYear is one row of the rental growth projection.
type ForecastYear struct {
	Year        int     `json:"year"`
	MonthlyRent float64 `json:"monthly_rent"`
	AnnualRent  float64 `json:"annual_rent"`
	GrowthRate  float64 `json:"growth_rate"` // annual %, e.g. 4.5
}

// ProjectGrowth compounds the current rent forward at the annual growth rate.
//
// FORMULA: rent(y) = current * (1 + rate)^y for y = 1..years
//
// Pure function of its inputs: rerunning with the same arguments yields an
// identical sequence.
func ProjectGrowth(currentMonthlyRent, currentAnnualRent, annualGrowthRate float64, years int) []ForecastYear {
	if years < 0 {
		years = 0
	}
	forecast := make([]ForecastYear, 0, years)
	for y := 1; y <= years; y++ {
		factor := math.Pow(1+annualGrowthRate, float64(y))
		forecast = append(forecast, ForecastYear{
			Year:        y,
			MonthlyRent: currentMonthlyRent * factor,
			AnnualRent:  currentAnnualRent * factor,
			GrowthRate:  annualGrowthRate * 100,
		})
	}
	return forecast
}
