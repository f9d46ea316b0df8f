// Package interp fits continuous-time kinematic models to track segments.
// A model carries one predictor per channel (northing, easting, COG, SOG,
// ROT, dROT) over the segment's time domain and answers point and interval
// queries at arbitrary timestamps.
package interp

import (
	"errors"
	"fmt"
	"math"

	gonuminterp "gonum.org/v1/gonum/interp"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
)

// Mode selects the continuous-time model family.
type Mode string

const (
	// Linear fits piecewise-linear predictors that pass exactly through
	// the sample points. Too few points support numerical
	// differentiation, so dROT is fixed at zero.
	Linear Mode = "linear"
	// Spline fits a shape-preserving Akima spline per channel.
	Spline Mode = "spline"
)

// ErrOutOfBounds marks an interval query outside the model's time domain.
// The model never extrapolates silently.
var ErrOutOfBounds = errors.New("query outside track time bounds")

// FitError wraps a failure to construct the model. The caller's policy is
// to drop the affected vessel and log a warning, not to abort the query.
type FitError struct {
	Channel string
	Err     error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("could not interpolate trajectory channel %s: %v", e.Channel, e.Err)
}

func (e *FitError) Unwrap() error { return e.Err }

// Observation is the model state at one timestamp.
type Observation struct {
	Northing float64
	Easting  float64
	COG      float64 // wrapped into [0,360)
	SOG      float64
	ROT      float64
	DROT     float64
}

// Sample is an observation paired with its timestamp, produced by interval
// queries.
type Sample struct {
	Observation
	Timestamp float64 // unix seconds
}

// TrackModel is the continuous-time model of one segment. It is built
// lazily on demand by the search agent and owned by its vessel; it must be
// rebuilt if the underlying segment changes.
type TrackModel struct {
	mode   Mode
	t0, t1 float64

	northing gonuminterp.Predictor
	easting  gonuminterp.Predictor
	cog      gonuminterp.Predictor
	sog      gonuminterp.Predictor
	rot      gonuminterp.Predictor
	drot     gonuminterp.Predictor
}

// Fit builds a TrackModel over the given time-ordered reports. It needs at
// least two reports with strictly increasing timestamps; anything else is a
// FitError.
func Fit(msgs []ais.Message, mode Mode) (*TrackModel, error) {
	if len(msgs) < 2 {
		return nil, &FitError{Channel: "all", Err: fmt.Errorf("need at least 2 reports, got %d", len(msgs))}
	}

	ts := make([]float64, len(msgs))
	for i, m := range msgs {
		ts[i] = float64(m.Timestamp)
		if i > 0 && ts[i] <= ts[i-1] {
			return nil, &FitError{Channel: "all", Err: fmt.Errorf("timestamps not strictly increasing at index %d", i)}
		}
	}

	m := &TrackModel{mode: mode, t0: ts[0], t1: ts[len(ts)-1]}

	channels := []struct {
		name  string
		value func(ais.Message) float64
		dst   *gonuminterp.Predictor
	}{
		{"northing", func(r ais.Message) float64 { return r.Northing }, &m.northing},
		{"easting", func(r ais.Message) float64 { return r.Easting }, &m.easting},
		{"cog", func(r ais.Message) float64 { return r.COG }, &m.cog},
		{"sog", func(r ais.Message) float64 { return r.SOG }, &m.sog},
		{"rot", rotValue, &m.rot},
		{"drot", drotValue, &m.drot},
	}
	for _, ch := range channels {
		if mode == Linear && ch.name == "drot" {
			*ch.dst = constantPredictor(0)
			continue
		}
		ys := make([]float64, len(msgs))
		for i, r := range msgs {
			ys[i] = ch.value(r)
		}
		p, err := fitChannel(ts, ys, mode)
		if err != nil {
			return nil, &FitError{Channel: ch.name, Err: err}
		}
		*ch.dst = p
	}
	return m, nil
}

func fitChannel(ts, ys []float64, mode Mode) (gonuminterp.Predictor, error) {
	var fp gonuminterp.FittablePredictor
	switch mode {
	case Spline:
		fp = &gonuminterp.AkimaSpline{}
	case Linear:
		fp = &gonuminterp.PiecewiseLinear{}
	default:
		return nil, fmt.Errorf("unknown interpolation mode %q", mode)
	}
	if err := fp.Fit(ts, ys); err != nil {
		return nil, err
	}
	return fp, nil
}

func rotValue(r ais.Message) float64 {
	if r.ROT == nil {
		return 0
	}
	return *r.ROT
}

func drotValue(r ais.Message) float64 {
	if r.DROT == nil {
		return 0
	}
	return *r.DROT
}

// constantPredictor returns c for every input.
type constantPredictor float64

func (c constantPredictor) Predict(float64) float64 { return float64(c) }

// Mode returns the model family the track was fitted with.
func (m *TrackModel) Mode() Mode { return m.mode }

// Bounds returns the model's time domain as unix seconds.
func (m *TrackModel) Bounds() (t0, t1 float64) { return m.t0, m.t1 }

// At evaluates all six channels at one timestamp. COG is wrapped into
// [0,360) after evaluation.
func (m *TrackModel) At(unixSeconds float64) Observation {
	return Observation{
		Northing: m.northing.Predict(unixSeconds),
		Easting:  m.easting.Predict(unixSeconds),
		COG:      wrapCOG(m.cog.Predict(unixSeconds)),
		SOG:      m.sog.Predict(unixSeconds),
		ROT:      m.rot.Predict(unixSeconds),
		DROT:     m.drot.Predict(unixSeconds),
	}
}

// Interval evaluates the model over a regularly spaced grid from start
// (inclusive) to end (exclusive) with the given step in seconds. Bounds
// outside the model's time domain fail with ErrOutOfBounds rather than
// extrapolating.
func (m *TrackModel) Interval(start, end, step float64) ([]Sample, error) {
	if step <= 0 {
		return nil, fmt.Errorf("interval step must be positive, got %f", step)
	}
	if start < m.t0 {
		return nil, fmt.Errorf("start %f before track start %f: %w", start, m.t0, ErrOutOfBounds)
	}
	if end > m.t1 {
		return nil, fmt.Errorf("end %f after track end %f: %w", end, m.t1, ErrOutOfBounds)
	}

	var samples []Sample
	for t := start; t < end; t += step {
		samples = append(samples, Sample{Observation: m.At(t), Timestamp: t})
	}
	return samples, nil
}

func wrapCOG(deg float64) float64 {
	wrapped := math.Mod(deg, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped
}
