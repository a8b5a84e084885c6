package score

import (
	"strings"

	"btr_valuation/pkg/models"
)

// ratingScores maps EPC bands to their contribution. Higher bands mean lower
// running costs and stronger tenant appeal.
var ratingScores = map[string]float64{
	"A": 25, "B": 20, "C": 15, "D": 10, "E": 5, "F": 2, "G": 0,
}

// ScoreEfficiency scores the local housing stock's energy efficiency for loc
// from EPC certificate rows.
//
// FORMULA: score = 50
//               + mean EPC rating score (A 25 ... G 0)
//               + min(mean improvement potential / 2, 25)
//
// Rows match loc by postcode outward code. No matching rows yields the
// default 50 with Estimated set.
func ScoreEfficiency(loc Location, certs []models.EPCRecord) ComponentScore {
	var ratingSum, improveSum float64
	var ratingN, matched int
	for _, c := range certs {
		if !loc.matchesPostcode(c.Postcode) {
			continue
		}
		matched++
		improveSum += c.ImprovementPotential()
		if v, ok := ratingScores[strings.ToUpper(strings.TrimSpace(c.CurrentRating))]; ok {
			ratingSum += v
			ratingN++
		}
	}
	if matched == 0 {
		return ComponentScore{Value: DefaultScore, Estimated: true}
	}

	s := DefaultScore
	if ratingN > 0 {
		s += ratingSum / float64(ratingN)
	}
	if improve := improveSum / float64(matched); improve > 0 {
		s += min(improve/2, 25)
	}
	return ComponentScore{Value: clamp(s, 0, ComponentMax)}
}
