package score

import "btr_valuation/pkg/models"

// ScoreRentalMarket scores the local private rental market for loc against
// the national picture.
//
// FORMULA: score = 50
//               + ratio band bonus, ratio = local avg rent / national avg rent
//                   0.8 <= r <= 1.5  +20  (healthy, affordable-but-liquid)
//                   0.6 <= r <  0.8  +10  (cheap, weaker demand)
//                   r > 1.5          +5   (expensive, yield compression)
//                   r < 0.6          +0
//               + min(2 * avg YoY growth %, 30) when growth is positive
//
// Rows are matched to loc by Region. No matching rows, or a degenerate
// national average, yields the default 50 with Estimated set.
func ScoreRentalMarket(loc Location, rentals []models.RentalRecord) ComponentScore {
	var nationalSum float64
	var nationalN int
	var localSum, growthSum float64
	var localN, matchedN int
	for _, r := range rentals {
		if r.Value > 0 {
			nationalSum += r.Value
			nationalN++
		}
		if !loc.matchesArea(r.Region) {
			continue
		}
		matchedN++
		growthSum += r.YoYGrowth
		if r.Value > 0 {
			localSum += r.Value
			localN++
		}
	}
	if localN == 0 || nationalN == 0 {
		return ComponentScore{Value: DefaultScore, Estimated: true}
	}

	nationalAvg := nationalSum / float64(nationalN)
	localAvg := localSum / float64(localN)
	if nationalAvg <= 0 {
		return ComponentScore{Value: DefaultScore, Estimated: true}
	}

	s := DefaultScore
	ratio := localAvg / nationalAvg
	switch {
	case ratio >= 0.8 && ratio <= 1.5:
		s += 20
	case ratio >= 0.6 && ratio < 0.8:
		s += 10
	case ratio > 1.5:
		s += 5
	}

	if growth := growthSum / float64(matchedN); growth > 0 {
		s += min(2*growth, 30)
	}
	return ComponentScore{Value: clamp(s, 0, ComponentMax)}
}
