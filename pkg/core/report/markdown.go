package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"btr_valuation/pkg/core/score"
)

// RenderMarkdown lays the report out as a markdown document: summary,
// valuation, appraisal, scenario comparison, rental forecast, scores, advice
// and the data quality appendix.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# BTR Investment Report\n\n")
	fmt.Fprintf(&b, "**Address:** %s  \n", r.Address)
	if r.Postcode != "" {
		fmt.Fprintf(&b, "**Postcode:** %s  \n", r.Postcode)
	}
	fmt.Fprintf(&b, "**Generated:** %s  \n", r.GeneratedAt.Format("2 January 2006"))
	fmt.Fprintf(&b, "**Report ID:** %s\n\n", r.ID)

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| BTR score | **%d/100** (%s) |\n", r.Score.OverallScore, r.Score.Category)
	fmt.Fprintf(&b, "| Property score | %d/100 (%s) |\n", r.SimpleScore.TotalScore, r.SimpleScore.Category)
	fmt.Fprintf(&b, "| Estimated value | £%.0f (%s confidence) |\n", r.Valuation.EstimatedValue, r.Valuation.Confidence)
	fmt.Fprintf(&b, "| Estimated rent | £%.0f/month |\n", r.Valuation.MonthlyRent)
	fmt.Fprintf(&b, "| Recommendation | %s |\n\n", r.Advice.Recommendation)

	fmt.Fprintf(&b, "## Valuation\n\n")
	fmt.Fprintf(&b, "Estimated market value: £%.0f.\n", r.Valuation.EstimatedValue)
	if r.ValuationCurated && r.Valuation.Rationale != "" {
		fmt.Fprintf(&b, "\n> %s\n", r.Valuation.Rationale)
	}

	a := r.Appraisal
	fmt.Fprintf(&b, "\n## Development appraisal (%s)\n\n", a.Refurb.Description)
	fmt.Fprintf(&b, "| Item | £ |\n|---|---|\n")
	fmt.Fprintf(&b, "| Purchase price | %.0f |\n", a.Purchase.PurchasePrice)
	fmt.Fprintf(&b, "| Stamp duty | %.0f |\n", a.Purchase.StampDuty)
	fmt.Fprintf(&b, "| Refurbishment | %.0f |\n", a.Refurb.TotalRefurbCost)
	fmt.Fprintf(&b, "| Finance | %.0f |\n", a.Finance.TotalFinanceCost)
	fmt.Fprintf(&b, "| Selling costs | %.0f |\n", a.Selling.TotalSellingCosts)
	fmt.Fprintf(&b, "| **Total costs** | **%.0f** |\n", a.Profit.TotalCosts)
	fmt.Fprintf(&b, "| **GDV** | **%.0f** |\n", a.GDV.GDV)
	fmt.Fprintf(&b, "| **Profit** | **%.0f** (%.1f%% on cost) |\n\n", a.Profit.Profit, a.Profit.ProfitOnCost*100)

	if r.MaxPrice != nil {
		fmt.Fprintf(&b, "Maximum price for a %.0f%% margin: **£%.0f**", r.MaxPrice.TargetProfit*100, r.MaxPrice.MaxPurchasePrice)
		if !r.MaxPrice.Converged {
			fmt.Fprintf(&b, " (closest point found)")
		}
		fmt.Fprintf(&b, ".\n")
	}

	if r.Scenarios != nil && len(r.Scenarios.Scenarios) > 0 {
		fmt.Fprintf(&b, "\n## Scenario comparison\n\n")
		fmt.Fprintf(&b, "| Scenario | Refurb £ | GDV £ | Profit on cost | Net yield |\n|---|---|---|---|---|\n")
		for _, s := range r.Scenarios.Scenarios {
			marker := ""
			if s.Scenario == r.Scenarios.BestScenario {
				marker = " (best)"
			}
			fmt.Fprintf(&b, "| %s%s | %.0f | %.0f | %.1f%% | %.1f%% |\n",
				s.Scenario, marker, s.RefurbCost, s.GDV, s.ProfitOnCost*100, s.NetYield*100)
		}
	}

	rent := a.Rental
	fmt.Fprintf(&b, "\n## Rental income\n\n")
	fmt.Fprintf(&b, "Gross rent £%.0f/month, net £%.0f/month after £%.0f annual expenses (%.0f%% expense ratio).\n",
		rent.MonthlyRent, rent.NetMonthlyRent, rent.TotalExpenses, rent.ExpenseRatio*100)
	fmt.Fprintf(&b, "Net yield: %.2f%% on investment, %.2f%% on value.\n",
		rent.NetYieldOnInvestment*100, rent.NetYieldOnValue*100)

	if len(r.Forecast) > 0 {
		fmt.Fprintf(&b, "\n| Year | Monthly rent £ | Annual rent £ |\n|---|---|---|\n")
		for _, y := range r.Forecast {
			fmt.Fprintf(&b, "| %d | %.0f | %.0f |\n", y.Year, y.MonthlyRent, y.AnnualRent)
		}
	}

	fmt.Fprintf(&b, "\n## Location score breakdown\n\n")
	fmt.Fprintf(&b, "| Component | Score |\n|---|---|\n")
	for _, name := range score.ComponentOrder {
		cs, ok := r.Score.ComponentScores[name]
		if !ok {
			continue
		}
		note := ""
		if cs.Estimated {
			note = " (estimated)"
		}
		fmt.Fprintf(&b, "| %s | %.0f/100%s |\n", name, cs.Value, note)
	}

	fmt.Fprintf(&b, "\n## Advice\n\n%s\n", r.Advice.Recommendation)
	for _, c := range r.Advice.Commentary {
		fmt.Fprintf(&b, "\n- %s", c)
	}
	if len(r.Advice.Renovation) > 0 {
		fmt.Fprintf(&b, "\n\n### Renovation\n")
		for _, c := range r.Advice.Renovation {
			fmt.Fprintf(&b, "\n- %s", c)
		}
	}

	if len(r.DataQuality.EstimatedFields) > 0 {
		fmt.Fprintf(&b, "\n\n## Data quality\n\nThe following inputs were estimated rather than evidenced: %s.\n",
			strings.Join(r.DataQuality.EstimatedFields, ", "))
		for _, n := range r.DataQuality.Notes {
			fmt.Fprintf(&b, "\n- %s", n)
		}
	}
	b.WriteString("\n")
	return b.String()
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderHTML converts the markdown report to HTML for the API response.
func RenderHTML(r *Report) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(RenderMarkdown(r)), &buf); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}
