package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractPostcode(t *testing.T) {
	cases := []struct {
		address string
		want    string
	}{
		{"10 Downing Street, London SW1A 2AA", "SW1A 2AA"},
		{"Flat 3, 12 Oak Road, Manchester m1 1ae", "M1 1AE"},
		{"12 Oak Road M11AE", "M11AE"},
		{"No postcode here", ""},
	}
	for _, c := range cases {
		if got := ExtractPostcode(c.address); got != c.want {
			t.Errorf("ExtractPostcode(%q) = %q, want %q", c.address, got, c.want)
		}
	}
}

func TestIsValidPostcode(t *testing.T) {
	if !IsValidPostcode("SW1A 2AA") {
		t.Error("SW1A 2AA should be valid")
	}
	if IsValidPostcode("SW1A 2AA extra") {
		t.Error("trailing text should not validate")
	}
	if IsValidPostcode("") {
		t.Error("empty string should not validate")
	}
}

func testGeocoder(postcodesURL, nominatimURL string) *FreeGeocoder {
	return &FreeGeocoder{
		client:        &http.Client{Timeout: 2 * time.Second},
		postcodesBase: postcodesURL,
		nominatimBase: nominatimURL,
		userAgent:     "test",
	}
}

func TestGeocodePostcodesIOFirst(t *testing.T) {
	pcSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"result":{"postcode":"M1 1AE","latitude":53.477,"longitude":-2.234,"admin_ward":"Piccadilly","region":"North West"}}`))
	}))
	defer pcSrv.Close()
	nomSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("nominatim should not be reached when postcodes.io answers")
	}))
	defer nomSrv.Close()

	g := testGeocoder(pcSrv.URL, nomSrv.URL)
	res, err := g.Geocode(context.Background(), "12 Oak Road, Manchester M1 1AE")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Source != "postcodes.io" {
		t.Fatalf("result = %+v, want postcodes.io hit", res)
	}
	if res.Lat != 53.477 || res.Postcode != "M1 1AE" {
		t.Errorf("result = %+v", res)
	}
}

func TestGeocodeFallsBackToNominatim(t *testing.T) {
	pcSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer pcSrv.Close()
	nomSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"53.48","lon":"-2.24","display_name":"Oak Road, Manchester, M1 1AE, United Kingdom"}]`))
	}))
	defer nomSrv.Close()

	g := testGeocoder(pcSrv.URL, nomSrv.URL)
	res, err := g.Geocode(context.Background(), "12 Oak Road, Manchester M1 1AE")
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || res.Source != "nominatim" {
		t.Fatalf("result = %+v, want nominatim hit", res)
	}
	if res.Postcode != "M1 1AE" {
		t.Errorf("postcode = %q, want extracted M1 1AE", res.Postcode)
	}
}

func TestGeocodeBothFailingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := testGeocoder(srv.URL, srv.URL)
	res, err := g.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("chain exhaustion should not error, got %v", err)
	}
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
}
