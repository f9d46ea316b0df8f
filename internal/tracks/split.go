package tracks

import (
	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
)

// PairRule decides whether the ordered report pair (a, b) marks a segment
// boundary. Returning true splits the track between a and b.
type PairRule func(a, b ais.Message) bool

// SplitConfig holds the gap thresholds for the default segmentation
// predicate. Both comparisons are strict: a pair sitting exactly on a
// threshold does not split.
type SplitConfig struct {
	MaxTimeGapSeconds float64
	MaxDistanceGapNM  float64
}

// IsSplitPoint reports whether the time gap or the great-circle distance
// between two time-adjacent reports of the same vessel exceeds its
// configured maximum.
func (c SplitConfig) IsSplitPoint(a, b ais.Message) bool {
	if float64(b.Timestamp-a.Timestamp) > c.MaxTimeGapSeconds {
		return true
	}
	return geo.HaversineNM(a.Lat, a.Lon, b.Lat, b.Lon) > c.MaxDistanceGapNM
}

// PairRule exposes the predicate in pluggable form.
func (c SplitConfig) PairRule() PairRule {
	return c.IsSplitPoint
}

// AnyPairRule composes pair rules so that a pair splits as soon as any of
// the given rules votes to split.
func AnyPairRule(rules ...PairRule) PairRule {
	return func(a, b ais.Message) bool {
		for _, r := range rules {
			if r != nil && r(a, b) {
				return true
			}
		}
		return false
	}
}
