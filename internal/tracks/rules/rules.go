// Package rules implements the segment filter: a composable set of typed
// predicates that reject reconstructed segments failing minimum length,
// spatial spread or query-time overlap criteria. Rule parameters are
// validated when a recipe is composed, before any data is processed.
package rules

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
	"github.com/nikpau/ais-targetship-searcher/internal/tracks"
)

// Rule is a predicate over a segment. Reject returning true means the
// segment is discarded.
type Rule interface {
	// Name identifies the rule in logs and rejection records.
	Name() string
	// Validate checks the rule's parameters at composition time.
	Validate() error
	// Reject reports whether the segment fails the rule.
	Reject(seg *tracks.Segment) bool
}

// Recipe composes rules: a segment is rejected as soon as any rule in the
// recipe rejects it.
type Recipe struct {
	rules []Rule
}

// NewRecipe validates all rules and composes them. A malformed rule fails
// the composition immediately.
func NewRecipe(rules ...Rule) (*Recipe, error) {
	for i, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("rule %d is nil", i)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name(), err)
		}
	}
	return &Recipe{rules: rules}, nil
}

// Reject reports whether any rule rejects the segment, and which one fired
// first.
func (r *Recipe) Reject(seg *tracks.Segment) (bool, string) {
	for _, rule := range r.rules {
		if rule.Reject(seg) {
			return true, rule.Name()
		}
	}
	return false, ""
}

// FilterResult records the verdict of a recipe over a vessel map. Rejected
// segments stay inspectable instead of being silently discarded.
type FilterResult struct {
	Accepted map[ais.MMSI][]*tracks.Segment
	Rejected map[ais.MMSI][]*tracks.Segment
}

// Apply filters every segment of every vessel. Vessel segment lists are
// replaced with their accepted subset; vessels left with zero segments are
// removed from the map.
func (r *Recipe) Apply(targets map[ais.MMSI]*tracks.Vessel) FilterResult {
	result := FilterResult{
		Accepted: make(map[ais.MMSI][]*tracks.Segment),
		Rejected: make(map[ais.MMSI][]*tracks.Segment),
	}
	for mmsi, v := range targets {
		var kept []*tracks.Segment
		for _, seg := range v.Segments {
			if rejected, _ := r.Reject(seg); rejected {
				result.Rejected[mmsi] = append(result.Rejected[mmsi], seg)
				continue
			}
			kept = append(kept, seg)
			result.Accepted[mmsi] = append(result.Accepted[mmsi], seg)
		}
		v.Segments = kept
		if len(kept) == 0 {
			delete(targets, mmsi)
		}
	}
	return result
}

// TooFewObservations rejects segments with fewer than N reports.
type TooFewObservations struct {
	N int
}

func (r TooFewObservations) Name() string { return "too_few_observations" }

func (r TooFewObservations) Validate() error {
	if r.N < 1 {
		return fmt.Errorf("minimum observation count must be at least 1, got %d", r.N)
	}
	return nil
}

func (r TooFewObservations) Reject(seg *tracks.Segment) bool {
	return seg.Len() < r.N
}

// TooSmallSpatialDeviation rejects segments whose summed standard deviation
// of latitude and longitude stays below SD degrees.
type TooSmallSpatialDeviation struct {
	SD float64
}

func (r TooSmallSpatialDeviation) Name() string { return "too_small_spatial_deviation" }

func (r TooSmallSpatialDeviation) Validate() error {
	if r.SD <= 0 {
		return fmt.Errorf("deviation threshold must be positive, got %f", r.SD)
	}
	return nil
}

func (r TooSmallSpatialDeviation) Reject(seg *tracks.Segment) bool {
	lats, lons := coordinates(seg)
	return stat.StdDev(lats, nil)+stat.StdDev(lons, nil) < r.SD
}

// TooSmallSpan rejects segments unless both the latitude range and the
// longitude range exceed Span degrees.
type TooSmallSpan struct {
	Span float64
}

func (r TooSmallSpan) Name() string { return "too_small_span" }

func (r TooSmallSpan) Validate() error {
	if r.Span <= 0 {
		return fmt.Errorf("span threshold must be positive, got %f", r.Span)
	}
	return nil
}

func (r TooSmallSpan) Reject(seg *tracks.Segment) bool {
	lats, lons := coordinates(seg)
	latSpan := floats.Max(lats) - floats.Min(lats)
	lonSpan := floats.Max(lons) - floats.Min(lons)
	return latSpan <= r.Span || lonSpan <= r.Span
}

// DoesNotOverlapQueryTime rejects segments whose time interval does not
// strictly contain the query anchor's timestamp.
type DoesNotOverlapQueryTime struct {
	Anchor geo.TimePosition
}

func (r DoesNotOverlapQueryTime) Name() string { return "does_not_overlap_query_time" }

func (r DoesNotOverlapQueryTime) Validate() error {
	if r.Anchor.UnixSeconds <= 0 {
		return fmt.Errorf("anchor timestamp must be set")
	}
	return nil
}

func (r DoesNotOverlapQueryTime) Reject(seg *tracks.Segment) bool {
	return !seg.OverlapsTime(r.Anchor.UnixSeconds)
}

func coordinates(seg *tracks.Segment) (lats, lons []float64) {
	lats = make([]float64, seg.Len())
	lons = make([]float64, seg.Len())
	for i, m := range seg.Messages {
		lats[i] = m.Lat
		lons[i] = m.Lon
	}
	return lats, lons
}
