// Package ais defines the normalized AIS report model. One Message is one
// decoded dynamic position report (types 1, 2, 3 and 18); StaticPool
// resolves the per-vessel attributes carried by type 5 reports.
package ais

import (
	"math"
)

// MMSI is the Maritime Mobile Service Identity, a vessel's numeric id.
type MMSI int

// rotScale is the sensor scaling constant of the raw AIS rate-of-turn
// encoding: decoded = sign(raw) * (raw/4.733)^2 degrees per minute.
const rotScale = 4.733

// Message is a single normalized dynamic report. Messages are created once
// from raw input and treated as immutable by the pipeline; the kinematic
// corrector produces corrected copies instead of mutating shared records.
type Message struct {
	MMSI      MMSI
	Timestamp int64 // unix seconds, UTC

	// Geographic position in decimal degrees.
	Lat float64
	Lon float64

	// Planar position in the configured projection's units: meters in
	// UTM mode, raw degrees (Lat, Lon) in latlon mode. Filled by the
	// search agent once the projection is resolved.
	Northing float64
	Easting  float64

	COG float64 // course over ground, degrees [0,360)
	SOG float64 // speed over ground, knots

	ROT  *float64 // rate of turn, degrees/minute; nil when unavailable
	DROT *float64 // derivative of ROT, degrees/minute²; derived, nil until filled
}

// DecodeROT decodes the sensor-specific raw rate-of-turn encoding. The
// sentinel values ±127 and ±128 mean "turn indicator unavailable" and
// decode to nil rather than a numeric rate.
func DecodeROT(raw float64) *float64 {
	if math.IsNaN(raw) {
		return nil
	}
	abs := math.Abs(raw)
	if abs == 127 || abs == 128 {
		return nil
	}
	v := raw / rotScale
	v *= v
	if raw < 0 {
		v = -v
	}
	return &v
}

// NewMessage builds a Message from raw report fields, decoding the rate of
// turn. rawROT may be NaN when the report carried no ROT field.
func NewMessage(mmsi MMSI, unixSeconds int64, lat, lon, sog, cog, rawROT float64) Message {
	return Message{
		MMSI:      mmsi,
		Timestamp: unixSeconds,
		Lat:       lat,
		Lon:       lon,
		Northing:  lat,
		Easting:   lon,
		SOG:       sog,
		COG:       cog,
		ROT:       DecodeROT(rawROT),
	}
}
