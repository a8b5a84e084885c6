// Package report assembles a full BTR investment report for one address:
// location lookup, dataset evidence, valuation estimate, development
// appraisal, scoring, rental forecast and advice text, plus markdown and HTML
// rendering. The builder always produces a report for a valid property;
// missing external data degrades to labelled defaults.
package report

import (
	"errors"
	"time"

	"btr_valuation/pkg/core/appraisal"
	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/finance"
	"btr_valuation/pkg/core/llm"
	"btr_valuation/pkg/core/rental"
	"btr_valuation/pkg/core/score"
	"btr_valuation/pkg/models"
)

// ErrLocationNotFound means the address yielded neither a postcode nor a
// geocoding hit, so nothing can anchor the analysis.
var ErrLocationNotFound = errors.New("report: location not found")

// Request describes one report to build. Only Address is required; explicit
// property details override estimates.
type Request struct {
	Address string `json:"address"`

	PurchasePrice float64            `json:"purchase_price,omitempty"`
	SquareFeet    float64            `json:"square_feet,omitempty"`
	PropertyType  string             `json:"property_type,omitempty"`
	Bedrooms      int                `json:"bedrooms,omitempty"`
	Bathrooms     int                `json:"bathrooms,omitempty"`
	Scenario      config.ScenarioKey `json:"scenario,omitempty"`
	ForecastYears int                `json:"forecast_years,omitempty"`
}

// DataQuality records which report inputs were defaulted rather than
// evidenced, so readers can judge how much to trust the numbers.
type DataQuality struct {
	EstimatedFields []string `json:"estimated_fields,omitempty"`
	Notes           []string `json:"notes,omitempty"`
}

func (q *DataQuality) flag(field, note string) {
	q.EstimatedFields = append(q.EstimatedFields, field)
	if note != "" {
		q.Notes = append(q.Notes, note)
	}
}

// Advice is the deterministic recommendation block of a report.
type Advice struct {
	Recommendation string   `json:"recommendation"`
	Commentary     []string `json:"commentary"`
	Renovation     []string `json:"renovation"`
}

// Report is the complete generated report.
type Report struct {
	ID          string    `json:"id"`
	Address     string    `json:"address"`
	Postcode    string    `json:"postcode,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Property *models.PropertyInfo  `json:"property"`
	Location *models.GeocodeResult `json:"location,omitempty"`

	Valuation        llm.ValuationEstimate `json:"valuation"`
	ValuationCurated bool                  `json:"valuation_curated"`

	Appraisal *appraisal.Result           `json:"appraisal"`
	Scenarios *appraisal.ScenarioAnalysis `json:"scenarios"`
	MaxPrice  *appraisal.MaxPriceResult   `json:"max_price"`
	Mortgage  finance.MortgageResult      `json:"mortgage"`

	Score       score.BTRScoreResult    `json:"score"`
	SimpleScore score.SimpleScoreResult `json:"simple_score"`

	Forecast []rental.ForecastYear `json:"forecast"`

	Advice      Advice      `json:"advice"`
	DataQuality DataQuality `json:"data_quality"`
}
