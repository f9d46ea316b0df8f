package tracks

import (
	"math"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
	"github.com/nikpau/ais-targetship-searcher/internal/monitoring"
	"github.com/nikpau/ais-targetship-searcher/internal/units"
)

// CorrectionConfig tunes the kinematic plausibility corrections applied to
// consecutive report pairs of a segment.
type CorrectionConfig struct {
	// PositionTolerance scales the speed-delta acceptance threshold of
	// the position correction. The inherited formula compares a planar
	// residual against tolerance*(SOGb-SOGa)*dt; it is kept as a named
	// knob rather than treated as literal law.
	PositionTolerance float64
}

// DefaultCorrectionConfig returns the correction parameters from the cited
// kinematic-consistency heuristics.
func DefaultCorrectionConfig() CorrectionConfig {
	return CorrectionConfig{PositionTolerance: 0.5}
}

// CorrectionReport counts the repairs performed by a correction pass.
// Corrections are silent data repairs, never errors.
type CorrectionReport struct {
	SpeedCorrections    int
	PositionCorrections int
}

// Add accumulates another report into r.
func (r *CorrectionReport) Add(other CorrectionReport) {
	r.SpeedCorrections += other.SpeedCorrections
	r.PositionCorrections += other.PositionCorrections
}

// CorrectSegment runs the speed and position corrections over a segment in
// one left-to-right pass and returns a corrected copy. The input segment is
// not mutated, so shared report slices stay safe under parallel assembly.
// Each pair is corrected exactly once; a corrected report becomes the
// comparison baseline for the following pair.
func CorrectSegment(seg *Segment, cfg CorrectionConfig) (*Segment, CorrectionReport) {
	out := append([]ais.Message(nil), seg.Messages...)
	var report CorrectionReport

	for i := 1; i < len(out); i++ {
		a := out[i-1]
		b := &out[i]
		if correctSpeed(a, b) {
			report.SpeedCorrections++
			monitoring.Warnf("speed correction for MMSI %d at %d", b.MMSI, b.Timestamp)
		}
		if correctPosition(a, b, cfg.PositionTolerance) {
			report.PositionCorrections++
			monitoring.Warnf("position correction for MMSI %d at %d", b.MMSI, b.Timestamp)
		}
	}
	return &Segment{Messages: out}, report
}

// CorrectVessels applies CorrectSegment to every segment of every vessel
// and returns the aggregated report. Vessel segment lists are replaced with
// their corrected copies.
func CorrectVessels(targets map[ais.MMSI]*Vessel, cfg CorrectionConfig) CorrectionReport {
	var total CorrectionReport
	for _, v := range targets {
		for i, seg := range v.Segments {
			corrected, report := CorrectSegment(seg, cfg)
			v.Segments[i] = corrected
			total.Add(report)
		}
	}
	return total
}

// TimeMeanSpeed returns the great-circle displacement between two reports
// divided by the elapsed time, in knots.
func TimeMeanSpeed(a, b ais.Message) float64 {
	dtHours := float64(b.Timestamp-a.Timestamp) / 3600
	if dtHours <= 0 {
		return 0
	}
	return geo.HaversineNM(a.Lat, a.Lon, b.Lat, b.Lon) / dtHours
}

// correctSpeed replaces b's reported SOG with the time-mean speed when the
// reported value falls outside the acceptance band spanned by the pair's
// speed delta.
func correctSpeed(a ais.Message, b *ais.Message) bool {
	tms := TimeMeanSpeed(a, *b)
	delta := b.SOG - a.SOG
	lower := a.SOG - delta
	upper := b.SOG + delta
	if lower < tms && tms < upper {
		return false
	}
	b.SOG = tms
	return true
}

// correctPosition dead-reckons b's position from a's speed and course and
// overwrites the reported position when the residual is within the
// tolerance band. Velocities are decomposed with COG in radians: the
// cosine component advances longitude, the sine component latitude,
// expressed in degrees per hour.
func correctPosition(a ais.Message, b *ais.Message, tolerance float64) bool {
	dtHours := float64(b.Timestamp-a.Timestamp) / 3600
	if dtHours <= 0 {
		return false
	}
	cogRad := a.COG * math.Pi / 180
	vLon := units.NauticalMilesToDegrees(a.SOG) * math.Cos(cogRad)
	vLat := units.NauticalMilesToDegrees(a.SOG) * math.Sin(cogRad)

	predLon := a.Lon + vLon*dtHours
	predLat := a.Lat + vLat*dtHours

	residual := math.Hypot(predLon-b.Lon, predLat-b.Lat)
	threshold := tolerance * units.NauticalMilesToDegrees(b.SOG-a.SOG) * dtHours
	if residual > threshold {
		return false
	}
	b.Lon = predLon
	b.Lat = predLat
	return true
}
