// Package tracks assembles per-vessel trajectories from unordered AIS
// reports: grouping by MMSI, gap-based segmentation, kinematic plausibility
// corrections and derived-rate filling. Segments are the unit everything
// downstream (rule filtering, interpolation) operates on.
package tracks

import (
	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/interp"
)

// Segment is a maximal run of one vessel's reports with no temporal or
// spatial discontinuity. Timestamps are strictly increasing and unique.
type Segment struct {
	Messages []ais.Message
}

// Len returns the number of reports in the segment.
func (s *Segment) Len() int { return len(s.Messages) }

// Shell returns the first and last report of the segment. It must not be
// called on an empty segment.
func (s *Segment) Shell() (first, last ais.Message) {
	return s.Messages[0], s.Messages[len(s.Messages)-1]
}

// Start returns the unix timestamp of the first report.
func (s *Segment) Start() int64 { return s.Messages[0].Timestamp }

// End returns the unix timestamp of the last report.
func (s *Segment) End() int64 { return s.Messages[len(s.Messages)-1].Timestamp }

// OverlapsTime reports whether the given unix timestamp lies strictly
// between the segment's first and last report.
func (s *Segment) OverlapsTime(unixSeconds int64) bool {
	if len(s.Messages) == 0 {
		return false
	}
	return s.Start() < unixSeconds && unixSeconds < s.End()
}

// Vessel is one target ship: its identity, static attributes and an ordered
// list of disjoint segments. Models holds one continuous-time model per
// segment once interpolation has run; it is nil for raw results.
type Vessel struct {
	MMSI      ais.MMSI
	ShipTypes []int   // all distinct reported types; nil when unresolved
	Length    float64 // meters; 0 when unresolved

	Segments []*Segment
	Models   []*interp.TrackModel
}

// OverlapWindow returns the time interval covered by both vessels' shells.
// ok is false when the trajectories are disjoint on the time axis.
func OverlapWindow(a, b *Vessel) (start, end int64, ok bool) {
	if len(a.Segments) == 0 || len(b.Segments) == 0 {
		return 0, 0, false
	}
	aStart := a.Segments[0].Start()
	aEnd := a.Segments[len(a.Segments)-1].End()
	bStart := b.Segments[0].Start()
	bEnd := b.Segments[len(b.Segments)-1].End()

	if aEnd < bStart || bEnd < aStart {
		return 0, 0, false
	}
	start = aStart
	if bStart > start {
		start = bStart
	}
	end = aEnd
	if bEnd < end {
		end = bEnd
	}
	return start, end, true
}
