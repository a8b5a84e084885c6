package score

import (
	"strings"

	"btr_valuation/pkg/models"
)

// Per-category contribution caps. Transport dominates because proximity to
// transit is the strongest rental demand signal in the source datasets.
var amenityCategoryCaps = map[string]float64{
	"transport":  15,
	"food":       10,
	"shopping":   10,
	"healthcare": 10,
	"education":  8,
	"leisure":    7,
	"services":   5,
}

// ScoreAmenities scores local amenity provision for loc.
//
// FORMULA: score = 50 + sum over categories of min(2 * count, cap)
//
// Counts come from amenity rows whose Location field matches loc. An empty or
// non-matching dataset yields the default 50 with Estimated set.
func ScoreAmenities(loc Location, amenities []models.Amenity) ComponentScore {
	counts := map[string]int{}
	matched := false
	for _, a := range amenities {
		if !loc.matchesArea(a.Location) {
			continue
		}
		matched = true
		counts[strings.ToLower(strings.TrimSpace(a.Category))]++
	}
	if !matched {
		return ComponentScore{Value: DefaultScore, Estimated: true}
	}

	s := DefaultScore
	for cat, n := range counts {
		cap, ok := amenityCategoryCaps[cat]
		if !ok {
			continue
		}
		s += min(2*float64(n), cap)
	}
	return ComponentScore{Value: clamp(s, 0, ComponentMax)}
}
