// Package models defines the shared value objects passed between the BTR
// calculation engine and its boundary collaborators (data loaders, geocoding,
// report rendering). Everything here is immutable once constructed.
package models

import (
	"fmt"
)

// PropertyType mirrors the Land Registry property type classification.
type PropertyType string

const (
	Detached     PropertyType = "D"
	SemiDetached PropertyType = "S"
	Terraced     PropertyType = "T"
	Flat         PropertyType = "F"
	OtherType    PropertyType = "O"
)

// Name returns the human-readable property type name.
func (t PropertyType) Name() string {
	switch t {
	case Detached:
		return "Detached"
	case SemiDetached:
		return "Semi-detached"
	case Terraced:
		return "Terraced"
	case Flat:
		return "Flat"
	default:
		return "Other"
	}
}

// ParsePropertyType accepts either the Land Registry single-letter code or a
// full type name ("detached", "flat", ...). Unknown values map to OtherType.
func ParsePropertyType(s string) PropertyType {
	switch s {
	case "D", "d", "detached", "Detached":
		return Detached
	case "S", "s", "semi-detached", "Semi-detached", "semi_detached":
		return SemiDetached
	case "T", "t", "terraced", "Terraced":
		return Terraced
	case "F", "f", "flat", "Flat", "maisonette", "Maisonette", "apartment":
		return Flat
	default:
		return OtherType
	}
}

// PropertyInfo is the subject of one analysis request. Constructed once from
// user input or a Land Registry lookup, then treated as read-only for the
// duration of the report.
type PropertyInfo struct {
	PurchasePrice float64 // £; zero means "unknown, estimate it"
	SquareFeet    float64
	PropertyType  PropertyType
	Bedrooms      int
	Bathrooms     int
	Rooms         int
	IsLeasehold   bool
	Postcode      string

	// ExtensionSquareFeet only matters for the Extension scenario. Zero means
	// "use the default" (25% of current floor area).
	ExtensionSquareFeet float64
}

// NewPropertyInfo validates the raw inputs and applies derived defaults.
// Leasehold defaults to true for flats when not set explicitly by the caller
// (use the struct literal directly to override).
func NewPropertyInfo(price, sqft float64, ptype PropertyType, bedrooms, bathrooms, rooms int, postcode string) (*PropertyInfo, error) {
	if sqft <= 0 {
		return nil, fmt.Errorf("square feet must be positive, got %v", sqft)
	}
	if price < 0 {
		return nil, fmt.Errorf("purchase price cannot be negative, got %v", price)
	}
	if bedrooms < 0 || bathrooms < 0 || rooms < 0 {
		return nil, fmt.Errorf("room counts cannot be negative")
	}
	return &PropertyInfo{
		PurchasePrice: price,
		SquareFeet:    sqft,
		PropertyType:  ptype,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Rooms:         rooms,
		IsLeasehold:   ptype == Flat,
		Postcode:      postcode,
	}, nil
}

// EstimateSquareFeet gives a rough floor area from type and bedroom count,
// used when a listing does not state the size.
func EstimateSquareFeet(ptype PropertyType, bedrooms int) float64 {
	base := 750.0
	switch ptype {
	case Flat:
		base = 600
	case Detached, SemiDetached, Terraced:
		base = 900
	}
	return base + float64(bedrooms-2)*150
}
