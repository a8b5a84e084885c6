package dataset

import (
	"strings"

	"btr_valuation/pkg/models"
)

// PostcodeArea returns the outward code of a UK postcode ("SW1A 1AA" ->
// "SW1A"). Postcodes without a space are split before the final three
// characters.
func PostcodeArea(postcode string) string {
	pc := strings.ToUpper(strings.TrimSpace(postcode))
	if i := strings.IndexByte(pc, ' '); i > 0 {
		return pc[:i]
	}
	if len(pc) > 3 {
		return pc[:len(pc)-3]
	}
	return pc
}

// SalesInArea filters Land Registry rows to the given postcode outward code.
func SalesInArea(sales []models.LandRegistrySale, postcode string) []models.LandRegistrySale {
	area := PostcodeArea(postcode)
	if area == "" {
		return nil
	}
	var out []models.LandRegistrySale
	for _, s := range sales {
		if strings.HasPrefix(strings.ToUpper(s.Postcode), area) {
			out = append(out, s)
		}
	}
	return out
}

// RentalsInRegion filters rental rows by case-insensitive region substring.
func RentalsInRegion(rentals []models.RentalRecord, region string) []models.RentalRecord {
	r := strings.ToLower(strings.TrimSpace(region))
	if r == "" {
		return nil
	}
	var out []models.RentalRecord
	for _, row := range rentals {
		f := strings.ToLower(row.Region)
		if strings.Contains(f, r) || strings.Contains(r, f) {
			out = append(out, row)
		}
	}
	return out
}

// Comparables derives the average £/sqft for an area from sales carrying
// floor-area data. Nil when no usable comparables exist; callers then fall
// back to the scenario uplift GDV path.
func Comparables(sales []models.LandRegistrySale, postcode string) *models.ComparableData {
	var sum float64
	var n int
	for _, s := range SalesInArea(sales, postcode) {
		if s.FloorArea <= 0 || s.Price <= 0 {
			continue
		}
		sum += s.Price / s.FloorArea
		n++
	}
	if n == 0 {
		return nil
	}
	return &models.ComparableData{AvgPricePerSqFt: sum / float64(n)}
}

// AveragePrice returns the mean sale price of the rows, zero for none.
func AveragePrice(sales []models.LandRegistrySale) float64 {
	var sum float64
	var n int
	for _, s := range sales {
		if s.Price > 0 {
			sum += s.Price
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MarketData summarises local rental evidence for the income model. Nil when
// the region has no rows.
func MarketData(rentals []models.RentalRecord, region string, purchasePrice float64) *models.RentalMarketData {
	rows := RentalsInRegion(rentals, region)
	if len(rows) == 0 {
		return nil
	}
	var rentSum, growthSum float64
	for _, r := range rows {
		rentSum += r.Value
		growthSum += r.YoYGrowth
	}
	md := &models.RentalMarketData{
		MonthlyRent: rentSum / float64(len(rows)),
		GrowthRate:  growthSum / float64(len(rows)),
	}
	if purchasePrice > 0 && md.MonthlyRent > 0 {
		md.GrossYield = md.MonthlyRent * 12 / purchasePrice
	}
	return md
}
