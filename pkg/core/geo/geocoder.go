// Package geo resolves free-text UK addresses to coordinates and postcodes
// using free public services. Geocoding is best-effort: every provider can
// fail or rate-limit, so the chain degrades to "no location" rather than
// erroring the whole report.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"btr_valuation/pkg/models"
)

// Geocoder resolves an address to coordinates. A nil result with nil error
// means "nothing matched", which callers treat as missing data.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeocodeResult, error)
}

// ukPostcodeRe matches a full UK postcode anywhere in an address string.
var ukPostcodeRe = regexp.MustCompile(`(?i)\b[A-Z]{1,2}[0-9][A-Z0-9]?\s?[0-9][A-Z]{2}\b`)

// ExtractPostcode pulls the first UK postcode out of an address, normalised
// to upper case. Empty string when none is present.
func ExtractPostcode(address string) string {
	m := ukPostcodeRe.FindString(address)
	if m == "" {
		return ""
	}
	return strings.ToUpper(strings.Join(strings.Fields(m), " "))
}

// IsValidPostcode reports whether s is a complete UK postcode.
func IsValidPostcode(s string) bool {
	m := ukPostcodeRe.FindString(s)
	return m != "" && len(m) == len(strings.TrimSpace(s))
}

// FreeGeocoder chains the free services: postcodes.io when the address
// contains a postcode, then Nominatim for free-text search. Both failing is
// not an error; the report proceeds without coordinates.
type FreeGeocoder struct {
	client        *http.Client
	postcodesBase string
	nominatimBase string
	userAgent     string
}

// NewFreeGeocoder builds the default chain with a short per-request timeout.
func NewFreeGeocoder() *FreeGeocoder {
	return &FreeGeocoder{
		client:        &http.Client{Timeout: 10 * time.Second},
		postcodesBase: "https://api.postcodes.io",
		nominatimBase: "https://nominatim.openstreetmap.org",
		userAgent:     "btr-valuation/1.0",
	}
}

// Geocode implements Geocoder.
func (g *FreeGeocoder) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	if pc := ExtractPostcode(address); pc != "" {
		if res, err := g.lookupPostcode(ctx, pc); err != nil {
			log.Warnf("[GEO] postcodes.io lookup failed for %s: %v", pc, err)
		} else if res != nil {
			return res, nil
		}
	}

	res, err := g.searchNominatim(ctx, address)
	if err != nil {
		log.Warnf("[GEO] nominatim search failed for %q: %v", address, err)
		return nil, nil
	}
	return res, nil
}

type postcodesIOResponse struct {
	Status int `json:"status"`
	Result struct {
		Postcode  string  `json:"postcode"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		AdminWard string  `json:"admin_ward"`
		Region    string  `json:"region"`
	} `json:"result"`
}

func (g *FreeGeocoder) lookupPostcode(ctx context.Context, postcode string) (*models.GeocodeResult, error) {
	u := fmt.Sprintf("%s/postcodes/%s", g.postcodesBase, url.PathEscape(postcode))
	var out postcodesIOResponse
	if err := g.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	if out.Status != 200 || out.Result.Postcode == "" {
		return nil, nil
	}
	return &models.GeocodeResult{
		Lat:              out.Result.Latitude,
		Lng:              out.Result.Longitude,
		FormattedAddress: fmt.Sprintf("%s, %s", out.Result.AdminWard, out.Result.Region),
		Postcode:         out.Result.Postcode,
		Source:           "postcodes.io",
	}, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *FreeGeocoder) searchNominatim(ctx context.Context, address string) (*models.GeocodeResult, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("countrycodes", "gb")
	q.Set("limit", "1")
	u := fmt.Sprintf("%s/search?%s", g.nominatimBase, q.Encode())

	var out []nominatimResult
	if err := g.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	var lat, lon float64
	if _, err := fmt.Sscanf(out[0].Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", out[0].Lat, err)
	}
	if _, err := fmt.Sscanf(out[0].Lon, "%f", &lon); err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", out[0].Lon, err)
	}
	return &models.GeocodeResult{
		Lat:              lat,
		Lng:              lon,
		FormattedAddress: out[0].DisplayName,
		Postcode:         ExtractPostcode(out[0].DisplayName),
		Source:           "nominatim",
	}, nil
}

func (g *FreeGeocoder) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, rawURL)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
