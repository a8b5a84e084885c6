package score

import "btr_valuation/pkg/models"

// SimpleInput carries the per-property signals for the five-factor score.
// Zero values mean "not known"; each factor then takes its documented
// mid-range default and the result is flagged estimated.
type SimpleInput struct {
	GrossYieldPct   float64             // annual gross yield on value, %
	PropertyType    models.PropertyType // zero value "" means unknown
	AreaScore       float64             // 0-100 location score, 0 = unknown
	RentGrowthPct   float64             // annual rental growth, %
	EPCImprovement  float64             // mean efficiency headroom, points
	HasEPCEvidence  bool                // distinguishes "zero headroom" from "no data"
	HasAreaEvidence bool
}

// SimpleFactor is one scored factor of the five-factor breakdown.
type SimpleFactor struct {
	Value     float64 `json:"value"`
	Max       float64 `json:"max"`
	Estimated bool    `json:"estimated"`
}

// SimpleScoreResult is the five-factor per-property score.
type SimpleScoreResult struct {
	TotalScore int                     `json:"total_score"`
	Category   Category                `json:"category"`
	Factors    map[string]SimpleFactor `json:"factors"`
}

// SimpleScore computes the five-factor property score:
//
//	yield          0-25  (default 10)
//	property_type  0-20  (default 10: unknown type scored as mid-market)
//	area           0-20  (default 10)
//	growth         0-20  (default 10)
//	renovation     0-15  (default 7.5)
//
// The factors are summed, clamped to [0,100] and mapped to the standard
// categories.
func SimpleScore(in SimpleInput) SimpleScoreResult {
	factors := map[string]SimpleFactor{
		"yield":         scoreYieldFactor(in.GrossYieldPct),
		"property_type": scoreTypeFactor(in.PropertyType),
		"area":          scoreAreaFactor(in.AreaScore, in.HasAreaEvidence),
		"growth":        scoreGrowthFactor(in.RentGrowthPct),
		"renovation":    scoreRenovationFactor(in.EPCImprovement, in.HasEPCEvidence),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Value
	}
	score := clampInt(int(total+0.5), 0, 100)
	return SimpleScoreResult{
		TotalScore: score,
		Category:   Categorize(score),
		Factors:    factors,
	}
}

func scoreYieldFactor(yieldPct float64) SimpleFactor {
	if yieldPct <= 0 {
		return SimpleFactor{Value: 10, Max: 25, Estimated: true}
	}
	var v float64
	switch {
	case yieldPct >= 8:
		v = 25
	case yieldPct >= 6:
		v = 20
	case yieldPct >= 4:
		v = 12
	default:
		v = 5
	}
	return SimpleFactor{Value: v, Max: 25}
}

func scoreTypeFactor(ptype models.PropertyType) SimpleFactor {
	switch ptype {
	case models.Detached:
		return SimpleFactor{Value: 20, Max: 20}
	case models.SemiDetached:
		return SimpleFactor{Value: 15, Max: 20}
	case models.Terraced:
		return SimpleFactor{Value: 10, Max: 20}
	case models.Flat:
		return SimpleFactor{Value: 5, Max: 20}
	case models.OtherType:
		return SimpleFactor{Value: 0, Max: 20}
	}
	return SimpleFactor{Value: 10, Max: 20, Estimated: true}
}

func scoreAreaFactor(areaScore float64, hasEvidence bool) SimpleFactor {
	if !hasEvidence {
		return SimpleFactor{Value: 10, Max: 20, Estimated: true}
	}
	// Rescale the 0-100 location score into this factor's 0-20 range.
	return SimpleFactor{Value: clamp(areaScore/5, 0, 20), Max: 20}
}

func scoreGrowthFactor(growthPct float64) SimpleFactor {
	if growthPct == 0 {
		return SimpleFactor{Value: 10, Max: 20, Estimated: true}
	}
	var v float64
	switch {
	case growthPct >= 7:
		v = 20
	case growthPct >= 5:
		v = 15
	case growthPct >= 3:
		v = 10
	case growthPct > 0:
		v = 5
	default:
		v = 2
	}
	return SimpleFactor{Value: v, Max: 20}
}

func scoreRenovationFactor(improvement float64, hasEvidence bool) SimpleFactor {
	if !hasEvidence {
		return SimpleFactor{Value: 7.5, Max: 15, Estimated: true}
	}
	var v float64
	switch {
	case improvement >= 20:
		v = 15
	case improvement >= 10:
		v = 11
	case improvement >= 5:
		v = 7.5
	default:
		v = 4
	}
	return SimpleFactor{Value: v, Max: 15}
}
