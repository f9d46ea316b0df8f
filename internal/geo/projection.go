package geo

import (
	"math"

	"github.com/nikpau/ais-targetship-searcher/internal/units"
)

// Projection maps geographic coordinates onto a plane so that Euclidean
// spatial-index queries and displacement arithmetic are locally valid. The
// strategy is resolved once when the search agent is configured; all
// distances handed to the spatial index must be expressed in the
// projection's units.
type Projection interface {
	// Name identifies the projection in logs.
	Name() string
	// Project maps latitude/longitude (degrees) to planar
	// (northing, easting) in the projection's units.
	Project(lat, lon float64) (northing, easting float64)
	// RadiusToPlanar converts a nautical-mile search radius into the
	// projection's planar units.
	RadiusToPlanar(nm float64) float64
}

// LatLonProjection treats raw latitude/longitude degrees as planar
// coordinates. Radii convert at one sixtieth of a degree per nautical
// mile, which is exact only at the equator and conservative elsewhere.
type LatLonProjection struct{}

func (LatLonProjection) Name() string { return "latlon" }

func (LatLonProjection) Project(lat, lon float64) (northing, easting float64) {
	return lat, lon
}

func (LatLonProjection) RadiusToPlanar(nm float64) float64 {
	return units.NauticalMilesToDegrees(nm)
}

// WGS84 ellipsoid parameters for the transverse Mercator series.
const (
	utmK0     = 0.9996
	utmRadius = 6378137.0
	utmEcc    = 0.00669438 // first eccentricity squared
	utmFalseE = 500000.0
	utmFalseN = 10000000.0
)

// UTMProjection performs a transverse Mercator projection into a single
// UTM zone fixed at construction time. Fixing the zone keeps planar
// coordinates consistent across a frame that straddles a zone boundary.
type UTMProjection struct {
	Zone       int
	southern   bool
	centralRad float64
}

// NewUTMProjection derives the UTM zone from the center of the given frame.
func NewUTMProjection(frame BoundingBox) *UTMProjection {
	lat, lon := frame.Center()
	zone := int((lon+180)/6) + 1
	if zone < 1 {
		zone = 1
	} else if zone > 60 {
		zone = 60
	}
	central := float64((zone-1)*6 - 180 + 3)
	return &UTMProjection{
		Zone:       zone,
		southern:   lat < 0,
		centralRad: central * math.Pi / 180,
	}
}

func (p *UTMProjection) Name() string { return "utm" }

// Project maps latitude/longitude to UTM northing and easting in meters
// using the standard Krüger series expansion.
func (p *UTMProjection) Project(lat, lon float64) (northing, easting float64) {
	const (
		e  = utmEcc
		e2 = e * e
		e3 = e2 * e
		ep = e / (1 - e)

		m1 = 1 - e/4 - 3*e2/64 - 5*e3/256
		m2 = 3*e/8 + 3*e2/32 + 45*e3/1024
		m3 = 15*e2/256 + 45*e3/1024
		m4 = 35 * e3 / 3072
	)

	latRad := lat * math.Pi / 180
	lonRad := lon * math.Pi / 180

	sinLat := math.Sin(latRad)
	cosLat := math.Cos(latRad)
	tanLat := sinLat / cosLat

	n := utmRadius / math.Sqrt(1-e*sinLat*sinLat)
	c := ep * cosLat * cosLat
	t := tanLat * tanLat
	a := cosLat * (lonRad - p.centralRad)
	a2 := a * a

	m := utmRadius * (m1*latRad -
		m2*math.Sin(2*latRad) +
		m3*math.Sin(4*latRad) -
		m4*math.Sin(6*latRad))

	easting = utmK0*n*(a+
		a*a2/6*(1-t+c)+
		a*a2*a2/120*(5-18*t+t*t+72*c-58*ep)) + utmFalseE

	northing = utmK0 * (m + n*tanLat*(a2/2+
		a2*a2/24*(5-t+9*c+4*c*c)+
		a2*a2*a2/720*(61-58*t+t*t+600*c-330*ep)))
	if p.southern {
		northing += utmFalseN
	}

	return northing, easting
}

func (p *UTMProjection) RadiusToPlanar(nm float64) float64 {
	return units.NauticalMilesToMeters(nm)
}
