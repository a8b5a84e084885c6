// Command report generates a BTR investment report for one address and
// prints it as markdown, or summarises a CSV of addresses in batch mode.
//
// Usage:
//
//	report [flags] "12 Oak Road, Manchester, M1 1AE"
//	report -batch addresses.csv
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/dataset"
	"btr_valuation/pkg/core/geo"
	"btr_valuation/pkg/core/llm"
	"btr_valuation/pkg/core/report"
)

func main() {
	godotenv.Load()

	var (
		configPath = flag.String("config", "config/engine.yaml", "engine configuration file")
		dataDir    = flag.String("data", "data", "dataset directory")
		batch      = flag.String("batch", "", "CSV file of addresses (one per row, first column)")
		price      = flag.Float64("price", 0, "asking price, £ (estimated when omitted)")
		sqft       = flag.Float64("sqft", 0, "floor area, sqft (estimated when omitted)")
		ptype      = flag.String("type", "", "property type: detached, semi-detached, terraced, flat")
		bedrooms   = flag.Int("bedrooms", 0, "bedroom count")
		scenario   = flag.String("scenario", "", "refurbishment scenario (default light_refurb)")
		offline    = flag.Bool("offline", false, "skip geocoding and model curation")
	)
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	catalog, err := dataset.NewCatalog(*dataDir)
	if err != nil {
		log.Warnf("datasets unavailable (%v), proceeding with defaults", err)
		catalog = nil
	}

	var geocoder geo.Geocoder
	provider := llm.Provider(&llm.NoopProvider{})
	if !*offline {
		geocoder = geo.NewFreeGeocoder()
		provider = llm.FromEnv(os.Getenv("GEMINI_MODEL"))
	}
	builder := report.NewBuilder(settings, catalog, geocoder, provider)

	if *batch != "" {
		os.Exit(runBatch(builder, *batch))
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: report [flags] \"<address>\"")
		flag.PrintDefaults()
		os.Exit(2)
	}

	rep, err := builder.Build(context.Background(), report.Request{
		Address:       flag.Arg(0),
		PurchasePrice: *price,
		SquareFeet:    *sqft,
		PropertyType:  *ptype,
		Bedrooms:      *bedrooms,
		Scenario:      config.ScenarioKey(*scenario),
	})
	if err != nil {
		if errors.Is(err, report.ErrLocationNotFound) {
			log.Errorf("location not found: %v", err)
			os.Exit(3)
		}
		log.Fatalf("report: %v", err)
	}

	fmt.Print(report.RenderMarkdown(rep))
	if len(rep.DataQuality.EstimatedFields) > 0 {
		log.Warnf("report generated with %d estimated inputs", len(rep.DataQuality.EstimatedFields))
	}
}

// runBatch scores every address in the CSV and prints a summary table.
// Individual failures are reported and skipped; the exit code is non-zero
// only when nothing succeeded.
func runBatch(builder *report.Builder, path string) int {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("batch: %v", err)
		return 1
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	fmt.Printf("%-50s %6s %-14s %10s %8s\n", "ADDRESS", "SCORE", "CATEGORY", "VALUE £", "YIELD")
	succeeded := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(row) == 0 || row[0] == "" || row[0] == "address" {
			continue
		}
		address := row[0]

		rep, err := builder.Build(context.Background(), report.Request{Address: address})
		if err != nil {
			log.Warnf("skipping %q: %v", address, err)
			continue
		}
		succeeded++
		fmt.Printf("%-50s %6d %-14s %10.0f %7.2f%%\n",
			truncate(address, 50), rep.Score.OverallScore, rep.Score.Category,
			rep.Valuation.EstimatedValue, rep.Appraisal.Rental.NetYieldOnValue*100)
	}

	if succeeded == 0 {
		log.Error("batch: no address produced a report")
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
