package models

import (
	"strings"

	"github.com/mmcloughlin/geohash"
)

// DefaultGeohashPrecision is roughly a 5 meter cell
const DefaultGeohashPrecision = 9

// Coordinates is a latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the pair lies inside the WGS84 range
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Place is an opaque location descriptor: free text, a coordinate pair, or both
type Place struct {
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// TextPlace builds a place from a free-text address
func TextPlace(address string) Place {
	return Place{Address: address}
}

// PointPlace builds a place from a coordinate pair
func PointPlace(lat, lng float64) Place {
	return Place{Coordinates: &Coordinates{Latitude: lat, Longitude: lng}}
}

// IsEmpty reports whether the place carries neither an address nor coordinates
func (p Place) IsEmpty() bool {
	return strings.TrimSpace(p.Address) == "" && p.Coordinates == nil
}

// Key returns the normalized identity of the place. Coordinates win over text
// so two pins in the same geohash cell are the same place.
func (p Place) Key(precision uint) string {
	if p.Coordinates != nil {
		if precision == 0 {
			precision = DefaultGeohashPrecision
		}
		return "geo:" + geohash.EncodeWithPrecision(p.Coordinates.Latitude, p.Coordinates.Longitude, precision)
	}
	return "text:" + strings.Join(strings.Fields(strings.ToLower(p.Address)), " ")
}

// SamePlace reports whether a and b denote the same location at the given precision
func SamePlace(a, b Place, precision uint) bool {
	return a.Key(precision) == b.Key(precision)
}
