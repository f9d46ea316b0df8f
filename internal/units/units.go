// Package units provides shared conversion helpers for marine navigation
// units. Positions arrive in decimal degrees, speeds in knots, and search
// radii in nautical miles; the planar projection works in meters.
package units

// Conversion constants
const (
	MetersPerNauticalMile = 1852.0

	// DegreesPerNauticalMile converts a nautical-mile distance into an
	// equivalent latitude span. Longitude lines converge towards the
	// poles, so using this for both axes is a conservative estimate
	// that only holds exactly at the equator.
	DegreesPerNauticalMile = 1.0 / 60.0
)

// MetersToNauticalMiles converts meters to nautical miles.
func MetersToNauticalMiles(m float64) float64 {
	return m / MetersPerNauticalMile
}

// NauticalMilesToMeters converts nautical miles to meters.
func NauticalMilesToMeters(nm float64) float64 {
	return nm * MetersPerNauticalMile
}

// NauticalMilesToDegrees converts a nautical-mile radius to a degree
// radius for use against raw latitude/longitude coordinates.
func NauticalMilesToDegrees(nm float64) float64 {
	return nm * DegreesPerNauticalMile
}

// KnotsToMetersPerSecond converts knots to meters per second.
func KnotsToMetersPerSecond(kn float64) float64 {
	return kn * MetersPerNauticalMile / 3600.0
}
