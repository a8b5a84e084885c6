package score

import (
	"math"
	"sort"
	"strings"
	"time"

	"btr_valuation/pkg/models"
)

// ScoreGrowth scores development momentum for loc from planning applications,
// with a price-trend bonus from the sales history.
//
// FORMULA: score = 50
//               + application volume tier: >50 +20, >20 +15, >10 +10, else +5
//               + min(30 * approval rate, 25)
//               + min(15 * residential share, 15)
//               + min(100 * annualised price growth, 10) when the matched
//                 sales history is deep enough to trend (>= 10 sales spanning
//                 more than one calendar month)
//
// Planning rows match loc by address; a negative price trend contributes
// nothing rather than a penalty. No matching planning rows yields the
// default 50 with Estimated set.
func ScoreGrowth(loc Location, apps []models.PlanningApplication, sales []models.LandRegistrySale) ComponentScore {
	var matched, approved, residential int
	for _, a := range apps {
		if !loc.matchesArea(a.Address) {
			continue
		}
		matched++
		if strings.Contains(strings.ToLower(a.Status), "approved") ||
			strings.Contains(strings.ToLower(a.Status), "granted") {
			approved++
		}
		if a.IsResidential {
			residential++
		}
	}
	if matched == 0 {
		return ComponentScore{Value: DefaultScore, Estimated: true}
	}

	s := DefaultScore
	switch {
	case matched > 50:
		s += 20
	case matched > 20:
		s += 15
	case matched > 10:
		s += 10
	default:
		s += 5
	}
	s += min(30*float64(approved)/float64(matched), 25)
	s += min(15*float64(residential)/float64(matched), 15)

	if g := annualPriceGrowth(loc, sales); g > 0 {
		s += min(100*g, 10)
	}
	return ComponentScore{Value: clamp(s, 0, ComponentMax)}
}

// annualPriceGrowth computes the annualised compound growth in the mean
// monthly sale price for loc. Returns 0 when the matched history is too thin
// (< 10 sales, or all within one calendar month).
func annualPriceGrowth(loc Location, sales []models.LandRegistrySale) float64 {
	type bucket struct {
		sum float64
		n   int
	}
	months := map[time.Time]*bucket{}
	total := 0
	for _, s := range sales {
		if s.Price <= 0 || s.DateOfTransfer.IsZero() {
			continue
		}
		if !loc.matchesPostcode(s.Postcode) && !loc.matchesArea(s.TownCity) {
			continue
		}
		m := time.Date(s.DateOfTransfer.Year(), s.DateOfTransfer.Month(), 1, 0, 0, 0, 0, time.UTC)
		b := months[m]
		if b == nil {
			b = &bucket{}
			months[m] = b
		}
		b.sum += s.Price
		b.n++
		total++
	}
	if total < 10 || len(months) < 2 {
		return 0
	}

	keys := make([]time.Time, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	first := months[keys[0]]
	last := months[keys[len(keys)-1]]
	firstAvg := first.sum / float64(first.n)
	lastAvg := last.sum / float64(last.n)
	if firstAvg <= 0 || lastAvg <= 0 {
		return 0
	}

	span := monthsBetween(keys[0], keys[len(keys)-1])
	if span < 1 {
		return 0
	}
	monthly := math.Pow(lastAvg/firstAvg, 1/float64(span)) - 1
	return math.Pow(1+monthly, 12) - 1
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
