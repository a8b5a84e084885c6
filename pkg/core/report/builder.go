package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"btr_valuation/pkg/core/appraisal"
	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/dataset"
	"btr_valuation/pkg/core/finance"
	"btr_valuation/pkg/core/geo"
	"btr_valuation/pkg/core/llm"
	"btr_valuation/pkg/core/rental"
	"btr_valuation/pkg/core/score"
	"btr_valuation/pkg/models"
)

const (
	defaultScenario      = config.LightRefurb
	defaultForecastYears = 5
	// Long-run UK private rent growth assumption when no local evidence exists.
	defaultRentGrowthRate = 0.035
	// £/sqft valuation heuristic of last resort.
	fallbackPricePSF = 400
)

// Builder assembles reports. All collaborators are optional except settings:
// a nil geocoder skips location lookup, a nil catalog runs with empty
// datasets, a nil provider skips curation.
type Builder struct {
	settings  *config.Settings
	appraiser *appraisal.Appraiser
	fin       *finance.Model
	catalog   *dataset.Catalog
	geocoder  geo.Geocoder
	provider  llm.Provider
}

// NewBuilder wires a report builder.
func NewBuilder(settings *config.Settings, catalog *dataset.Catalog, geocoder geo.Geocoder, provider llm.Provider) *Builder {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Builder{
		settings:  settings,
		appraiser: appraisal.New(settings),
		fin:       finance.NewModel(settings),
		catalog:   catalog,
		geocoder:  geocoder,
		provider:  provider,
	}
}

// Build generates the full report for one request. The only hard failures are
// ErrLocationNotFound and invalid property inputs; missing external data
// degrades to flagged defaults.
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	r := &Report{
		ID:          uuid.NewString(),
		Address:     req.Address,
		GeneratedAt: time.Now().UTC(),
	}

	// 1. Anchor the location.
	postcode := geo.ExtractPostcode(req.Address)
	if b.geocoder != nil {
		loc, err := b.geocoder.Geocode(ctx, req.Address)
		if err != nil {
			log.Warnf("[REPORT] geocoding error for %q: %v", req.Address, err)
		}
		r.Location = loc
		if postcode == "" && loc != nil {
			postcode = loc.Postcode
		}
	}
	if postcode == "" && r.Location == nil {
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, req.Address)
	}
	r.Postcode = postcode

	data := b.snapshot()
	areaSales := dataset.SalesInArea(data.Sales, postcode)
	scoreLoc := score.Location{Area: areaName(req.Address, r.Location), Postcode: postcode}

	// 2. Establish the property.
	ptype := models.PropertyType("")
	if req.PropertyType != "" {
		ptype = models.ParsePropertyType(req.PropertyType)
	}
	sqft := req.SquareFeet
	if sqft <= 0 {
		sqft = models.EstimateSquareFeet(ptype, req.Bedrooms)
		r.DataQuality.flag("square_feet", "Floor area estimated from property type and bedroom count.")
	}

	price := req.PurchasePrice
	if price <= 0 {
		price = medianPrice(areaSales)
		if price > 0 {
			r.DataQuality.flag("purchase_price", "Purchase price taken as the local median sale price.")
		} else {
			price = sqft * fallbackPricePSF
			r.DataQuality.flag("purchase_price", "Purchase price estimated from floor area; no local sales evidence.")
		}
	}

	property, err := models.NewPropertyInfo(price, sqft, ptype, req.Bedrooms, req.Bathrooms, 0, postcode)
	if err != nil {
		return nil, err
	}
	r.Property = property

	// 3. Market evidence.
	comparables := dataset.Comparables(data.Sales, postcode)
	market := dataset.MarketData(data.Rentals, scoreLoc.Area, price)
	if market == nil {
		r.DataQuality.flag("rental_market", "No local rental evidence; configured yield defaults in use.")
	}

	// 4. Valuation estimate, optionally curated.
	r.Valuation = b.estimateValue(price, areaSales, market)
	r.Valuation, r.ValuationCurated = llm.CurateEstimate(ctx, b.provider, r.Valuation,
		evidenceSummary(areaSales, market))

	// 5. Development appraisal.
	scenario := req.Scenario
	if scenario == "" {
		scenario = defaultScenario
	}
	opts := appraisal.Options{Comparables: comparables, Market: market}

	r.Appraisal, err = b.appraiser.Appraise(property, scenario, opts)
	if err != nil {
		return nil, err
	}
	r.Scenarios, err = b.appraiser.RunScenarioAnalysis(property, nil, opts)
	if err != nil {
		return nil, err
	}
	r.MaxPrice, err = b.appraiser.MaxPurchasePrice(property, scenario, 0, opts)
	if err != nil {
		return nil, err
	}
	r.Mortgage = b.fin.MortgageCosts(r.Appraisal.GDV.GDV)

	// 6. Scores.
	components := score.Components{
		score.Amenities:     score.ScoreAmenities(scoreLoc, data.Amenities),
		score.RentalMarket:  score.ScoreRentalMarket(scoreLoc, data.Rentals),
		score.PropertyValue: score.ScorePropertyValue(scoreLoc, data.Sales),
		score.Growth:        score.ScoreGrowth(scoreLoc, data.Planning, data.Sales),
		score.Efficiency:    score.ScoreEfficiency(scoreLoc, data.EPC),
	}
	r.Score = score.Aggregate(components, nil)
	for _, name := range r.Score.EstimatedComponents {
		r.DataQuality.flag("score."+string(name), "")
	}

	epcImprovement, hasEPC := meanEPCImprovement(data.EPC, postcode)
	growthPct := 0.0
	if market != nil {
		growthPct = market.GrowthRate
	}
	r.SimpleScore = score.SimpleScore(score.SimpleInput{
		GrossYieldPct:   r.Appraisal.Rental.GrossYieldOnValue * 100,
		PropertyType:    ptype,
		AreaScore:       float64(r.Score.OverallScore),
		HasAreaEvidence: len(r.Score.EstimatedComponents) < len(components),
		RentGrowthPct:   growthPct,
		EPCImprovement:  epcImprovement,
		HasEPCEvidence:  hasEPC,
	})

	// 7. Rental growth forecast.
	years := req.ForecastYears
	if years <= 0 {
		years = defaultForecastYears
	}
	growthRate := defaultRentGrowthRate
	if market != nil && market.GrowthRate > 0 {
		growthRate = market.GrowthRate / 100
	} else {
		r.DataQuality.flag("rent_growth", "Rent growth projected at the long-run national assumption.")
	}
	r.Forecast = rental.ProjectGrowth(r.Appraisal.Rental.MonthlyRent, r.Appraisal.Rental.AnnualRent, growthRate, years)

	r.Advice = buildAdvice(r)
	return r, nil
}

func (b *Builder) snapshot() *dataset.Store {
	if b.catalog == nil {
		return &dataset.Store{}
	}
	return b.catalog.Snapshot()
}

// estimateValue anchors the valuation block: the local median when sales
// evidence exists, otherwise the working price.
func (b *Builder) estimateValue(price float64, areaSales []models.LandRegistrySale, market *models.RentalMarketData) llm.ValuationEstimate {
	est := llm.ValuationEstimate{EstimatedValue: price, Confidence: "low"}
	if median := medianPrice(areaSales); median > 0 {
		est.EstimatedValue = median
		est.Confidence = "medium"
		if len(areaSales) >= 10 {
			est.Confidence = "high"
		}
	}
	if market != nil && market.MonthlyRent > 0 {
		est.MonthlyRent = market.MonthlyRent
	} else {
		est.MonthlyRent = est.EstimatedValue * b.settings.Rental.GrossYield / 12
	}
	return est
}

func medianPrice(sales []models.LandRegistrySale) float64 {
	var prices []float64
	for _, s := range sales {
		if s.Price > 0 {
			prices = append(prices, s.Price)
		}
	}
	if len(prices) == 0 {
		return 0
	}
	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid]
	}
	return (prices[mid-1] + prices[mid]) / 2
}

func meanEPCImprovement(certs []models.EPCRecord, postcode string) (float64, bool) {
	area := dataset.PostcodeArea(postcode)
	if area == "" {
		return 0, false
	}
	var sum float64
	var n int
	for _, c := range certs {
		if strings.HasPrefix(strings.ToUpper(c.Postcode), area) {
			sum += c.ImprovementPotential()
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// areaName extracts a town or district name for dataset matching: the
// geocoded address when present, else the last comma-separated part of the
// input address that is not a postcode.
func areaName(address string, loc *models.GeocodeResult) string {
	if loc != nil && loc.FormattedAddress != "" {
		return loc.FormattedAddress
	}
	parts := strings.Split(address, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		p := strings.TrimSpace(parts[i])
		if p == "" || geo.IsValidPostcode(p) {
			continue
		}
		// Strip a trailing postcode from "Manchester M1 1AE".
		if pc := geo.ExtractPostcode(p); pc != "" {
			p = strings.TrimSpace(strings.ReplaceAll(p, pc, ""))
			if p == "" {
				continue
			}
		}
		return p
	}
	return strings.TrimSpace(address)
}

func evidenceSummary(areaSales []models.LandRegistrySale, market *models.RentalMarketData) string {
	var sb strings.Builder
	if len(areaSales) > 0 {
		fmt.Fprintf(&sb, "%d recorded sales in the postcode area, average price £%.0f.\n",
			len(areaSales), dataset.AveragePrice(areaSales))
	} else {
		sb.WriteString("No recorded sales in the postcode area.\n")
	}
	if market != nil {
		fmt.Fprintf(&sb, "Average local rent £%.0f/month, annual growth %.1f%%.\n",
			market.MonthlyRent, market.GrowthRate)
	} else {
		sb.WriteString("No local rental market evidence.\n")
	}
	return sb.String()
}
