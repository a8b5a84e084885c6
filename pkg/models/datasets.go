package models

import "time"

// =============================================================================
// EXTERNAL DATASET ROWS
// Each dataset is optional: the engine accepts a nil/empty slice and falls
// back to documented defaults. Rows are fully parsed before the engine sees
// them; a loader never hands over a half-built record.
// =============================================================================

// LandRegistrySale is one row of the Land Registry price-paid dataset.
type LandRegistrySale struct {
	Price          float64
	DateOfTransfer time.Time
	Postcode       string
	PropertyType   PropertyType
	TownCity       string
	FloorArea      float64 // sqft; zero when the source has no area data
}

// RentalRecord is one row of the ONS private rental dataset.
type RentalRecord struct {
	Region    string
	Date      time.Time
	Value     float64 // average monthly rent, £
	YoYGrowth float64 // percentage points, e.g. 4.5
}

// Amenity is one row of the OSM amenities dataset.
type Amenity struct {
	Location string
	Category string // transport, food, shopping, healthcare, education, leisure, services
	Type     string
	Lat      float64
	Lon      float64
}

// EPCRecord is one row of the EPC certificates dataset.
type EPCRecord struct {
	Postcode            string
	CurrentRating       string // A-G
	CurrentEfficiency   float64
	PotentialEfficiency float64
}

// ImprovementPotential is the headroom between the potential and current
// efficiency scores.
func (r EPCRecord) ImprovementPotential() float64 {
	return r.PotentialEfficiency - r.CurrentEfficiency
}

// PlanningApplication is one row of the planning applications dataset.
type PlanningApplication struct {
	Address       string
	Status        string
	IsResidential bool
	UnitCount     int
}

// ComparableData carries comparable-sales evidence for the GDV calculation.
// When AvgPricePerSqFt is positive it overrides the scenario uplift formula.
type ComparableData struct {
	AvgPricePerSqFt float64
}

// RentalMarketData carries local rental market evidence. A zero GrossYield
// means "not known, use the configured default".
type RentalMarketData struct {
	GrossYield  float64
	MonthlyRent float64 // observed local average, £; informational
	GrowthRate  float64 // annual %, e.g. 4.5
}

// GeocodeResult is the fully-parsed output of the geocoding collaborator.
type GeocodeResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	Postcode         string
	Source           string // postcodes.io, nominatim
}
