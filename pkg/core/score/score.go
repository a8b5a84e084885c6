// Package score implements the BTR location scoring engine: five independent
// component scorers over the external datasets, a weighted aggregator, and the
// simpler five-factor scorer used by the single-property report path.
//
// Every component is scored on one canonical 0-100 scale; weighting is the
// aggregator's job. Each scorer returns its documented default (50) with an
// Estimated flag when its dataset is absent or matches nothing for the
// location; absence of external data is never an error here.
package score

import "math"

// Component identifies one sub-score of the location analysis.
type Component string

const (
	Amenities     Component = "amenities"
	RentalMarket  Component = "rental"
	PropertyValue Component = "property_value"
	Growth        Component = "growth"
	Efficiency    Component = "efficiency"
)

// ComponentMax is the canonical sub-score scale ceiling.
const ComponentMax = 100.0

// DefaultScore is what a scorer returns when its dataset cannot speak for the
// location.
const DefaultScore = 50.0

// ComponentScore is one scored component. Estimated marks a defaulted value.
type ComponentScore struct {
	Value     float64 `json:"value"`
	Estimated bool    `json:"estimated"`
}

// Components maps component names to their scores. A missing key means the
// component was not scored at all (its dataset was not even attempted) and is
// excluded from aggregation.
type Components map[Component]ComponentScore

// ComponentOrder is the canonical iteration order for components. Map
// iteration is randomized, so anything that lists or renders components walks
// this slice instead to keep output stable across runs.
var ComponentOrder = []Component{Amenities, RentalMarket, PropertyValue, Growth, Efficiency}

// DefaultWeights is the standard component weighting.
var DefaultWeights = map[Component]float64{
	Amenities:     0.20,
	RentalMarket:  0.25,
	PropertyValue: 0.20,
	Growth:        0.20,
	Efficiency:    0.15,
}

// Category labels a BTR score band.
type Category string

const (
	Excellent    Category = "excellent"
	Good         Category = "good"
	AboveAverage Category = "above_average"
	Average      Category = "average"
	BelowAverage Category = "below_average"
	Poor         Category = "poor"
	VeryPoor     Category = "very_poor"
)

// Categorize maps a 0-100 score to its band (inclusive lower bounds).
func Categorize(score int) Category {
	switch {
	case score >= 80:
		return Excellent
	case score >= 70:
		return Good
	case score >= 60:
		return AboveAverage
	case score >= 50:
		return Average
	case score >= 40:
		return BelowAverage
	case score >= 30:
		return Poor
	default:
		return VeryPoor
	}
}

// BTRScoreResult is the aggregated location score.
type BTRScoreResult struct {
	OverallScore    int        `json:"overall_score"`
	Category        Category   `json:"category"`
	ComponentScores Components `json:"component_scores"`

	// EstimatedComponents lists components that fell back to their default.
	EstimatedComponents []Component `json:"estimated_components,omitempty"`
}

// Aggregate combines component scores by weighted average.
//
// Missing components are excluded from BOTH numerator and denominator, so a
// single present component passes through at its own value rather than being
// diluted by absent ones. No components at all yields the base score of 50.
// The final integer score is always clamped to [0,100].
func Aggregate(components Components, weights map[Component]float64) BTRScoreResult {
	if weights == nil {
		weights = DefaultWeights
	}

	totalWeight := 0.0
	weighted := 0.0
	var estimated []Component
	for _, name := range ComponentOrder {
		cs, present := components[name]
		if !present {
			continue
		}
		w, ok := weights[name]
		if !ok {
			continue
		}
		weighted += cs.Value * w
		totalWeight += w
		if cs.Estimated {
			estimated = append(estimated, name)
		}
	}

	final := DefaultScore
	if totalWeight > 0 {
		final = weighted / totalWeight
	}

	overall := clampInt(int(math.Round(final)), 0, 100)
	return BTRScoreResult{
		OverallScore:        overall,
		Category:            Categorize(overall),
		ComponentScores:     components,
		EstimatedComponents: estimated,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
