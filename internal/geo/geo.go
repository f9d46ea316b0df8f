// Package geo provides the geometric primitives for trajectory
// reconstruction: great-circle distances, the spatial bounding frame, the
// time-position query anchor and the planar projection strategies used by
// the spatial index.
package geo

import (
	"fmt"
	"math"

	"github.com/nikpau/ais-targetship-searcher/internal/units"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

// HaversineMeters returns the great-circle distance between two points in
// meters. Inputs are decimal degrees.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Asin(math.Sqrt(a))
	return EarthRadiusMeters * c
}

// HaversineNM returns the great-circle distance between two points in
// nautical miles. Inputs are decimal degrees.
func HaversineNM(lat1, lon1, lat2, lon2 float64) float64 {
	return units.MetersToNauticalMiles(HaversineMeters(lat1, lon1, lat2, lon2))
}

// BoundingBox is the spatial domain of a reconstruction pass. Reports
// outside it are not eligible for vessel construction.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Validate checks that the box is well formed and within geographic range.
func (b BoundingBox) Validate() error {
	if b.LatMin < -90 || b.LatMax > 90 || b.LatMin >= b.LatMax {
		return fmt.Errorf("invalid latitude range [%f, %f]", b.LatMin, b.LatMax)
	}
	if b.LonMin < -180 || b.LonMax > 180 || b.LonMin >= b.LonMax {
		return fmt.Errorf("invalid longitude range [%f, %f]", b.LonMin, b.LonMax)
	}
	return nil
}

// Contains reports whether the given position lies strictly inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat > b.LatMin && lat < b.LatMax && lon > b.LonMin && lon < b.LonMax
}

// Center returns the geographic center of the box.
func (b BoundingBox) Center() (lat, lon float64) {
	return (b.LatMin + b.LatMax) / 2, (b.LonMin + b.LonMax) / 2
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("<BoundingBox(latmin=%.3f,latmax=%.3f,lonmin=%.3f,lonmax=%.3f)>",
		b.LatMin, b.LatMax, b.LonMin, b.LonMax)
}

// TimePosition is the anchor of a neighbor search: a timestamp paired with
// a geographic position. It is immutable once validated.
type TimePosition struct {
	UnixSeconds int64
	Lat         float64
	Lon         float64
}

// NewTimePosition validates the anchor coordinates and returns the anchor.
func NewTimePosition(unixSeconds int64, lat, lon float64) (TimePosition, error) {
	if unixSeconds <= 0 {
		return TimePosition{}, fmt.Errorf("invalid anchor timestamp %d", unixSeconds)
	}
	if lat < -90 || lat > 90 {
		return TimePosition{}, fmt.Errorf("anchor latitude %f out of range", lat)
	}
	if lon < -180 || lon > 180 {
		return TimePosition{}, fmt.Errorf("anchor longitude %f out of range", lon)
	}
	return TimePosition{UnixSeconds: unixSeconds, Lat: lat, Lon: lon}, nil
}
