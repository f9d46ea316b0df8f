package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
	"github.com/nikpau/ais-targetship-searcher/internal/tracks"
)

// lineSegment builds a segment of n reports walking the given lat/lon step
// per report, 60 seconds apart.
func lineSegment(n int, lat0, lon0, dLat, dLon float64) *tracks.Segment {
	msgs := make([]ais.Message, n)
	for i := range msgs {
		msgs[i] = ais.NewMessage(1, int64(i*60),
			lat0+float64(i)*dLat, lon0+float64(i)*dLon, 10, 0, math.NaN())
	}
	return &tracks.Segment{Messages: msgs}
}

func TestNewRecipeValidation(t *testing.T) {
	tests := []struct {
		name    string
		rules   []Rule
		wantErr bool
	}{
		{"valid rules", []Rule{TooFewObservations{N: 5}, TooSmallSpan{Span: 0.1}}, false},
		{"empty recipe", nil, false},
		{"nil rule", []Rule{TooFewObservations{N: 5}, nil}, true},
		{"invalid observation count", []Rule{TooFewObservations{N: 0}}, true},
		{"invalid deviation threshold", []Rule{TooSmallSpatialDeviation{SD: -1}}, true},
		{"invalid span threshold", []Rule{TooSmallSpan{Span: 0}}, true},
		{"unset anchor", []Rule{DoesNotOverlapQueryTime{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecipe(tt.rules...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRecipe() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTooFewObservations(t *testing.T) {
	rule := TooFewObservations{N: 3}

	assert.True(t, rule.Reject(lineSegment(2, 54, 8, 0.01, 0.01)))
	assert.False(t, rule.Reject(lineSegment(3, 54, 8, 0.01, 0.01)))
}

func TestTooSmallSpatialDeviation(t *testing.T) {
	rule := TooSmallSpatialDeviation{SD: 0.01}

	// A vessel at rest has zero positional spread.
	assert.True(t, rule.Reject(lineSegment(5, 54, 8, 0, 0)))
	// A moving vessel spreads well past the threshold.
	assert.False(t, rule.Reject(lineSegment(5, 54, 8, 0.05, 0.05)))
}

func TestTooSmallSpan(t *testing.T) {
	rule := TooSmallSpan{Span: 0.05}

	// Both axes must exceed the span; a pure north-south run fails on
	// longitude.
	assert.True(t, rule.Reject(lineSegment(5, 54, 8, 0.05, 0)))
	assert.False(t, rule.Reject(lineSegment(5, 54, 8, 0.05, 0.05)))
	// Sitting exactly on the span threshold still rejects.
	assert.True(t, rule.Reject(lineSegment(2, 54, 8, 0.05, 0.05)))
}

func TestDoesNotOverlapQueryTime(t *testing.T) {
	seg := lineSegment(3, 54, 8, 0.01, 0.01) // covers [0, 120]
	mk := func(unix int64) DoesNotOverlapQueryTime {
		return DoesNotOverlapQueryTime{Anchor: geo.TimePosition{UnixSeconds: unix, Lat: 54, Lon: 8}}
	}

	assert.False(t, mk(60).Reject(seg))
	// Overlap is strict: anchors on the shell reject.
	assert.True(t, mk(0).Reject(seg))
	assert.True(t, mk(120).Reject(seg))
	assert.True(t, mk(500).Reject(seg))
}

func TestRecipeRejectNamesFiringRule(t *testing.T) {
	recipe, err := NewRecipe(TooFewObservations{N: 10}, TooSmallSpan{Span: 0.05})
	require.NoError(t, err)

	rejected, name := recipe.Reject(lineSegment(3, 54, 8, 0.1, 0.1))
	assert.True(t, rejected)
	assert.Equal(t, "too_few_observations", name)

	rejected, name = recipe.Reject(lineSegment(12, 54, 8, 0.1, 0.1))
	assert.False(t, rejected)
	assert.Empty(t, name)
}

func TestRecipeRejectionIsMonotonic(t *testing.T) {
	// A segment rejected by one rule alone stays rejected by any recipe
	// containing that rule.
	seg := lineSegment(3, 54, 8, 0.1, 0.1)
	alone, err := NewRecipe(TooFewObservations{N: 10})
	require.NoError(t, err)
	combined, err := NewRecipe(TooSmallSpan{Span: 0.01}, TooFewObservations{N: 10})
	require.NoError(t, err)

	rejected, _ := alone.Reject(seg)
	require.True(t, rejected)
	rejected, _ = combined.Reject(seg)
	assert.True(t, rejected)
}

func TestRecipeApply(t *testing.T) {
	keep := lineSegment(8, 54, 8, 0.1, 0.1)
	drop := lineSegment(3, 54, 8, 0.1, 0.1)

	targets := map[ais.MMSI]*tracks.Vessel{
		1: {MMSI: 1, Segments: []*tracks.Segment{keep, drop}},
		2: {MMSI: 2, Segments: []*tracks.Segment{drop}},
	}

	recipe, err := NewRecipe(TooFewObservations{N: 5})
	require.NoError(t, err)
	result := recipe.Apply(targets)

	// Vessel 1 keeps its long segment, vessel 2 is removed entirely.
	require.Contains(t, targets, ais.MMSI(1))
	require.NotContains(t, targets, ais.MMSI(2))
	assert.Equal(t, []*tracks.Segment{keep}, targets[1].Segments)

	// Rejected segments stay inspectable.
	assert.Len(t, result.Accepted[1], 1)
	assert.Len(t, result.Rejected[1], 1)
	assert.Len(t, result.Rejected[2], 1)
}
