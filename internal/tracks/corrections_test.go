package tracks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
)

func TestTimeMeanSpeed(t *testing.T) {
	a := testMsg(1, 0, 54.0, 8.0)
	b := testMsg(1, 3600, 54.2, 8.0)

	// 0.2 degrees of latitude in one hour is about 12 knots.
	assert.InDelta(t, 12.008, TimeMeanSpeed(a, b), 0.01)

	// Zero or negative elapsed time yields zero instead of dividing.
	assert.Equal(t, 0.0, TimeMeanSpeed(a, a))
	assert.Equal(t, 0.0, TimeMeanSpeed(b, a))
}

func TestCorrectSegmentSpeed(t *testing.T) {
	muteLogs(t)

	// Both reports claim 10 knots but the displacement implies about 12:
	// the reported speed is implausible and is overwritten with the
	// time-mean speed.
	seg := &Segment{Messages: []ais.Message{
		ais.NewMessage(1, 0, 54.0, 8.0, 10, 0, math.NaN()),
		ais.NewMessage(1, 3600, 54.2, 8.0, 10, 0, math.NaN()),
	}}

	out, report := CorrectSegment(seg, DefaultCorrectionConfig())

	assert.Equal(t, 1, report.SpeedCorrections)
	assert.Equal(t, 0, report.PositionCorrections)
	assert.InDelta(t, 12.008, out.Messages[1].SOG, 0.01)

	// The input segment is untouched; corrections produce a copy.
	assert.Equal(t, 10.0, seg.Messages[1].SOG)
}

func TestCorrectSegmentSpeedPlausiblePair(t *testing.T) {
	muteLogs(t)

	// A rising reported speed spans a wide acceptance band; a time-mean
	// speed of 12 knots falls inside it and nothing is corrected.
	seg := &Segment{Messages: []ais.Message{
		ais.NewMessage(1, 0, 54.0, 8.0, 10, 0, math.NaN()),
		ais.NewMessage(1, 3600, 54.2, 8.0, 40, 0, math.NaN()),
	}}

	out, report := CorrectSegment(seg, DefaultCorrectionConfig())

	assert.Equal(t, 0, report.SpeedCorrections)
	assert.Equal(t, 40.0, out.Messages[1].SOG)
}

func TestCorrectSegmentCascades(t *testing.T) {
	muteLogs(t)

	// The corrected second report becomes the baseline for the third
	// pair, so the pass stays a single left-to-right sweep.
	seg := &Segment{Messages: []ais.Message{
		ais.NewMessage(1, 0, 54.0, 8.0, 10, 0, math.NaN()),
		ais.NewMessage(1, 3600, 54.2, 8.0, 10, 0, math.NaN()),
		ais.NewMessage(1, 7200, 54.4, 8.0, 40, 0, math.NaN()),
	}}

	out, report := CorrectSegment(seg, DefaultCorrectionConfig())

	require.Equal(t, 1, report.SpeedCorrections)
	assert.Equal(t, 10.0, out.Messages[0].SOG)
	assert.InDelta(t, 12.008, out.Messages[1].SOG, 0.01)
	assert.Equal(t, 40.0, out.Messages[2].SOG)
}

func TestCorrectSegmentPosition(t *testing.T) {
	muteLogs(t)

	// The second report sits close to the dead-reckoned position while
	// the speed delta allows a generous residual: the reported position
	// is replaced by the predicted one.
	seg := &Segment{Messages: []ais.Message{
		ais.NewMessage(1, 0, 54.0, 8.0, 10, 0, math.NaN()),
		ais.NewMessage(1, 360, 54.0, 8.016, 16, 0, math.NaN()),
	}}

	out, report := CorrectSegment(seg, DefaultCorrectionConfig())

	assert.Equal(t, 0, report.SpeedCorrections)
	require.Equal(t, 1, report.PositionCorrections)
	// COG 0 advances pure longitude: 10 kn for 0.1 h is 1/60 degrees.
	assert.InDelta(t, 8.0+1.0/60, out.Messages[1].Lon, 1e-9)
	assert.InDelta(t, 54.0, out.Messages[1].Lat, 1e-9)

	// Original position survives on the input.
	assert.Equal(t, 8.016, seg.Messages[1].Lon)
}

func TestCorrectSegmentPositionZeroTolerance(t *testing.T) {
	muteLogs(t)

	seg := &Segment{Messages: []ais.Message{
		ais.NewMessage(1, 0, 54.0, 8.0, 10, 0, math.NaN()),
		ais.NewMessage(1, 360, 54.0, 8.016, 16, 0, math.NaN()),
	}}

	_, report := CorrectSegment(seg, CorrectionConfig{PositionTolerance: 0})
	assert.Equal(t, 0, report.PositionCorrections)
}

func TestCorrectVessels(t *testing.T) {
	muteLogs(t)

	mkSeg := func() *Segment {
		return &Segment{Messages: []ais.Message{
			ais.NewMessage(1, 0, 54.0, 8.0, 10, 0, math.NaN()),
			ais.NewMessage(1, 3600, 54.2, 8.0, 10, 0, math.NaN()),
		}}
	}
	orig1, orig2 := mkSeg(), mkSeg()
	targets := map[ais.MMSI]*Vessel{
		1: {MMSI: 1, Segments: []*Segment{orig1, orig2}},
	}

	report := CorrectVessels(targets, DefaultCorrectionConfig())

	assert.Equal(t, 2, report.SpeedCorrections)
	// Segment lists now hold the corrected copies.
	assert.NotSame(t, orig1, targets[1].Segments[0])
	assert.NotSame(t, orig2, targets[1].Segments[1])
	assert.InDelta(t, 12.008, targets[1].Segments[0].Messages[1].SOG, 0.01)
	assert.Equal(t, 10.0, orig1.Messages[1].SOG)
}

func TestCorrectionReportAdd(t *testing.T) {
	r := CorrectionReport{SpeedCorrections: 1, PositionCorrections: 2}
	r.Add(CorrectionReport{SpeedCorrections: 3, PositionCorrections: 4})
	assert.Equal(t, CorrectionReport{SpeedCorrections: 4, PositionCorrections: 6}, r)
}
