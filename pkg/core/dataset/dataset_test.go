package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"btr_valuation/pkg/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLandRegistryCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "land_registry_20250601.csv",
		"price,date_of_transfer,postcode,property_type,town_city,floor_area\n"+
			"250000,2025-03-14,M1 1AA,T,MANCHESTER,850\n"+
			"not_a_price,2025-03-14,M1 1AB,T,MANCHESTER,\n"+
			"\"£180,000\",2025-04-02,M1 2BB,F,MANCHESTER,\n")

	rows, err := LoadLandRegistryCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (malformed row skipped)", len(rows))
	}
	if rows[0].Price != 250000 || rows[0].Postcode != "M1 1AA" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].PropertyType != models.Terraced {
		t.Errorf("property type = %s, want T", rows[0].PropertyType)
	}
	if rows[0].FloorArea != 850 {
		t.Errorf("floor area = %v, want 850", rows[0].FloorArea)
	}
	if rows[1].Price != 180000 {
		t.Errorf("currency-formatted price = %v, want 180000", rows[1].Price)
	}
}

func TestLoadRentalsCSVFlexibleHeaders(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ons_rentals_20250601.csv",
		"Region,Date,Value,YoY Growth\n"+
			"North West,2025-04,1050,4.2\n")

	rows, err := LoadRentalsCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Region != "North West" || rows[0].Value != 1050 || rows[0].YoYGrowth != 4.2 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestLoadPlanningHTMLMapsByHeader(t *testing.T) {
	dir := t.TempDir()
	// Status column before address: mapping must follow the header text.
	path := writeFile(t, dir, "planning_applications_20250601.html", `
<html><body><table>
<tr><th>Status</th><th>Address</th><th>Proposal</th></tr>
<tr><td>Approved</td><td>1 High Street, M1 1AA</td><td>Erection of 24 dwellings</td></tr>
<tr><td>Pending</td><td>2 Low Street, M1 2BB</td><td>Change of use to office</td></tr>
</table></body></html>`)

	apps, err := LoadPlanningHTML(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 {
		t.Fatalf("got %d apps, want 2", len(apps))
	}
	if apps[0].Address != "1 High Street, M1 1AA" || apps[0].Status != "Approved" {
		t.Errorf("app 0 = %+v", apps[0])
	}
	if !apps[0].IsResidential || apps[0].UnitCount != 24 {
		t.Errorf("app 0 residential/units = %v/%d, want true/24", apps[0].IsResidential, apps[0].UnitCount)
	}
	if apps[1].IsResidential {
		t.Error("office change of use flagged residential")
	}
}

func TestLoadPicksLatestFileByPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "land_registry_20250101.csv",
		"price,date_of_transfer,postcode\n100000,2025-01-01,M1 1AA\n")
	writeFile(t, dir, "land_registry_20250601.csv",
		"price,date_of_transfer,postcode\n200000,2025-06-01,M1 1AA\n300000,2025-06-02,M1 2BB\n")

	s, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Sales) != 2 {
		t.Fatalf("got %d sales, want 2 from the newer file", len(s.Sales))
	}
	if s.Rentals != nil || s.Planning != nil {
		t.Error("absent datasets should stay nil")
	}
}

func TestPostcodeArea(t *testing.T) {
	cases := map[string]string{
		"SW1A 1AA": "SW1A",
		"m1 1aa":   "M1",
		"M11AA":    "M1",
		"M1":       "M1",
	}
	for in, want := range cases {
		if got := PostcodeArea(in); got != want {
			t.Errorf("PostcodeArea(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestComparables(t *testing.T) {
	sales := []models.LandRegistrySale{
		{Price: 200000, Postcode: "M1 1AA", FloorArea: 800}, // 250/psf
		{Price: 300000, Postcode: "M1 2BB", FloorArea: 1000}, // 300/psf
		{Price: 400000, Postcode: "M1 3CC"},                  // no area, excluded
		{Price: 500000, Postcode: "SW1A 1AA", FloorArea: 500},
	}
	c := Comparables(sales, "M1 9ZZ")
	if c == nil {
		t.Fatal("expected comparables for M1")
	}
	if math.Abs(c.AvgPricePerSqFt-275) > 1e-9 {
		t.Errorf("avg psf = %v, want 275", c.AvgPricePerSqFt)
	}
	if Comparables(sales, "") != nil {
		t.Error("empty postcode should yield nil")
	}
}

func TestMarketData(t *testing.T) {
	rentals := []models.RentalRecord{
		{Region: "Greater Manchester", Value: 1000, YoYGrowth: 4},
		{Region: "Greater Manchester", Value: 1100, YoYGrowth: 5},
		{Region: "London", Value: 2000},
	}
	md := MarketData(rentals, "manchester", 250000)
	if md == nil {
		t.Fatal("expected market data")
	}
	if math.Abs(md.MonthlyRent-1050) > 1e-9 || math.Abs(md.GrowthRate-4.5) > 1e-9 {
		t.Errorf("market = %+v", md)
	}
	// 1050 * 12 / 250000 = 0.0504
	if math.Abs(md.GrossYield-0.0504) > 1e-9 {
		t.Errorf("gross yield = %v, want 0.0504", md.GrossYield)
	}
	if MarketData(rentals, "nowhere", 0) != nil {
		t.Error("unknown region should yield nil")
	}
}
