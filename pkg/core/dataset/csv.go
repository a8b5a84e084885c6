package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"btr_valuation/pkg/models"
)

// header maps normalised column names to their index. Normalisation folds
// case and treats '-', ' ' and '_' the same, so "Date of Transfer",
// "date_of_transfer" and "date-of-transfer" all address one column.
type header map[string]int

func normaliseColumn(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.ReplaceAll(n, " ", "_")
	return n
}

func readHeader(record []string) header {
	h := header{}
	for i, name := range record {
		h[normaliseColumn(name)] = i
	}
	return h
}

// col returns the first matching column value, trimmed. Empty string when no
// candidate column exists or the row is short.
func (h header) col(record []string, candidates ...string) string {
	for _, c := range candidates {
		i, ok := h[c]
		if !ok || i >= len(record) {
			continue
		}
		return strings.TrimSpace(record[i])
	}
	return ""
}

func (h header) colFloat(record []string, candidates ...string) (float64, bool) {
	raw := h.col(record, candidates...)
	if raw == "" {
		return 0, false
	}
	// Tolerate currency formatting in cached exports.
	raw = strings.ReplaceAll(strings.TrimPrefix(raw, "£"), ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04", "02/01/2006", "2006-01"}

func (h header) colDate(record []string, candidates ...string) (time.Time, bool) {
	raw := h.col(record, candidates...)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// forEachRow streams a headered CSV file through fn. fn returns false to
// signal a skipped (malformed) row; skipped rows are counted and logged.
func forEachRow(path string, fn func(h header, record []string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	first, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	h := readHeader(first)

	skipped := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if !fn(h, record) {
			skipped++
		}
	}
	if skipped > 0 {
		log.Warnf("[DATASET] %s: skipped %d malformed rows", path, skipped)
	}
	return nil
}

// LoadLandRegistryCSV parses a cached Land Registry price-paid export.
// Required columns: price, date_of_transfer, postcode. Optional:
// property_type, town_city, floor_area.
func LoadLandRegistryCSV(path string) ([]models.LandRegistrySale, error) {
	var rows []models.LandRegistrySale
	err := forEachRow(path, func(h header, rec []string) bool {
		price, ok := h.colFloat(rec, "price", "price_paid")
		if !ok || price <= 0 {
			return false
		}
		date, ok := h.colDate(rec, "date_of_transfer", "date", "deed_date")
		if !ok {
			return false
		}
		sale := models.LandRegistrySale{
			Price:          price,
			DateOfTransfer: date,
			Postcode:       strings.ToUpper(h.col(rec, "postcode")),
			PropertyType:   models.ParsePropertyType(h.col(rec, "property_type", "type")),
			TownCity:       h.col(rec, "town_city", "town", "city"),
		}
		if area, ok := h.colFloat(rec, "floor_area", "floor_area_sqft"); ok {
			sale.FloorArea = area
		}
		rows = append(rows, sale)
		return true
	})
	return rows, err
}

// LoadRentalsCSV parses the cached ONS private rental export. Required
// columns: region, value (average monthly rent). Optional: date, yoy_growth.
func LoadRentalsCSV(path string) ([]models.RentalRecord, error) {
	var rows []models.RentalRecord
	err := forEachRow(path, func(h header, rec []string) bool {
		region := h.col(rec, "region", "area", "local_authority")
		value, ok := h.colFloat(rec, "value", "average_rent", "rent")
		if region == "" || !ok {
			return false
		}
		row := models.RentalRecord{Region: region, Value: value}
		if d, ok := h.colDate(rec, "date", "period"); ok {
			row.Date = d
		}
		if g, ok := h.colFloat(rec, "yoy_growth", "annual_growth", "growth"); ok {
			row.YoYGrowth = g
		}
		rows = append(rows, row)
		return true
	})
	return rows, err
}

// LoadAmenitiesCSV parses the cached OSM amenities export. Required columns:
// location, category. Optional: type, lat, lon.
func LoadAmenitiesCSV(path string) ([]models.Amenity, error) {
	var rows []models.Amenity
	err := forEachRow(path, func(h header, rec []string) bool {
		location := h.col(rec, "location", "area", "town")
		category := h.col(rec, "category")
		if location == "" || category == "" {
			return false
		}
		a := models.Amenity{
			Location: location,
			Category: strings.ToLower(category),
			Type:     h.col(rec, "type", "amenity_type"),
		}
		a.Lat, _ = h.colFloat(rec, "lat", "latitude")
		a.Lon, _ = h.colFloat(rec, "lon", "lng", "longitude")
		rows = append(rows, a)
		return true
	})
	return rows, err
}

// LoadEPCCSV parses the cached EPC certificates export. Required columns:
// postcode, current_energy_rating. Optional efficiency scores.
func LoadEPCCSV(path string) ([]models.EPCRecord, error) {
	var rows []models.EPCRecord
	err := forEachRow(path, func(h header, rec []string) bool {
		postcode := strings.ToUpper(h.col(rec, "postcode"))
		rating := strings.ToUpper(h.col(rec, "current_energy_rating", "current_rating", "rating"))
		if postcode == "" || rating == "" {
			return false
		}
		row := models.EPCRecord{Postcode: postcode, CurrentRating: rating}
		row.CurrentEfficiency, _ = h.colFloat(rec, "current_energy_efficiency", "current_efficiency")
		row.PotentialEfficiency, _ = h.colFloat(rec, "potential_energy_efficiency", "potential_efficiency")
		rows = append(rows, row)
		return true
	})
	return rows, err
}

// LoadPlanningCSV parses a cached planning-applications export for councils
// that publish CSV instead of an HTML portal.
func LoadPlanningCSV(path string) ([]models.PlanningApplication, error) {
	var rows []models.PlanningApplication
	err := forEachRow(path, func(h header, rec []string) bool {
		address := h.col(rec, "address", "site_address", "location")
		if address == "" {
			return false
		}
		app := models.PlanningApplication{
			Address: address,
			Status:  h.col(rec, "status", "decision"),
		}
		app.IsResidential = isResidentialProposal(h.col(rec, "proposal", "description", "development_type"))
		if n, ok := h.colFloat(rec, "unit_count", "units"); ok {
			app.UnitCount = int(n)
		}
		rows = append(rows, app)
		return true
	})
	return rows, err
}
