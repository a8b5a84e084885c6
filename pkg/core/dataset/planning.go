package dataset

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"btr_valuation/pkg/models"
)

// Residential proposals are identified by keyword. Council portals describe
// developments in free text, so this is a heuristic, not a taxonomy.
var residentialKeywords = []string{
	"dwelling", "residential", "house", "flat", "apartment",
	"maisonette", "bungalow", "hmo", "bedroom",
}

func isResidentialProposal(proposal string) bool {
	p := strings.ToLower(proposal)
	for _, kw := range residentialKeywords {
		if strings.Contains(p, kw) {
			return true
		}
	}
	return false
}

var unitCountRe = regexp.MustCompile(`(?i)(\d+)\s*(?:no\.?\s*)?(?:new\s+)?(?:dwellings?|units?|flats?|apartments?|houses?)`)

// parseUnitCount pulls a unit count from a proposal description like
// "Erection of 24 dwellings". Zero when no count is stated.
func parseUnitCount(proposal string) int {
	m := unitCountRe.FindStringSubmatch(proposal)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// LoadPlanningHTML parses a saved council planning-portal results page.
// It reads every table row, mapping cells by the table's own header text
// (address, proposal/description, status/decision), so column order does not
// matter. Rows without an address cell are skipped.
func LoadPlanningHTML(path string) ([]models.PlanningApplication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	var apps []models.PlanningApplication
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := map[string]int{}
		table.Find("th").Each(func(i int, th *goquery.Selection) {
			cols[normaliseColumn(th.Text())] = i
		})
		if len(cols) == 0 {
			return
		}

		cell := func(cells *goquery.Selection, candidates ...string) string {
			for _, c := range candidates {
				i, ok := cols[c]
				if !ok || i >= cells.Length() {
					continue
				}
				return strings.TrimSpace(cells.Eq(i).Text())
			}
			return ""
		}

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return
			}
			address := cell(cells, "address", "site_address", "location")
			if address == "" {
				return
			}
			proposal := cell(cells, "proposal", "description", "development")
			apps = append(apps, models.PlanningApplication{
				Address:       address,
				Status:        cell(cells, "status", "decision"),
				IsResidential: isResidentialProposal(proposal),
				UnitCount:     parseUnitCount(proposal),
			})
		})
	})
	return apps, nil
}
