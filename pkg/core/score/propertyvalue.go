package score

import "btr_valuation/pkg/models"

// ScorePropertyValue scores the local sales market for loc from Land
// Registry price-paid rows.
//
// FORMULA: score = 50
//               + price ratio bonus, ratio = local avg price / national avg
//                   0.7 <= r <= 1.3  +25  (mid-market, deepest buyer pool)
//                   0.5 <= r <  0.7  +30  (value area, BTR sweet spot)
//                   1.3 <  r <= 2.0  +15
//                   otherwise        +5
//               + min(5 * distinct property types sold, 20)
//
// Rows match loc by postcode outward code, falling back to town/city name.
// No matching rows yields the default 50 with Estimated set.
func ScorePropertyValue(loc Location, sales []models.LandRegistrySale) ComponentScore {
	var nationalSum float64
	var nationalN int
	var localSum float64
	var localN int
	types := map[models.PropertyType]bool{}
	for _, s := range sales {
		if s.Price <= 0 {
			continue
		}
		nationalSum += s.Price
		nationalN++
		if !loc.matchesPostcode(s.Postcode) && !loc.matchesArea(s.TownCity) {
			continue
		}
		localSum += s.Price
		localN++
		types[s.PropertyType] = true
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
	case ratio >= 0.7 && ratio <= 1.3:
		s += 25
	case ratio >= 0.5 && ratio < 0.7:
		s += 30
	case ratio > 1.3 && ratio <= 2.0:
		s += 15
	default:
		s += 5
	}
	s += min(5*float64(len(types)), 20)

	return ComponentScore{Value: clamp(s, 0, ComponentMax)}
}
