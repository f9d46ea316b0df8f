// Package search implements the trajectory search agent: the orchestrator
// owning the bounding frame, the time-filtered candidate pool and the
// reconstruction pipeline (neighbor query, track assembly, kinematic
// correction, rule filtering, interpolation).
package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/config"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
	"github.com/nikpau/ais-targetship-searcher/internal/interp"
	"github.com/nikpau/ais-targetship-searcher/internal/monitoring"
	"github.com/nikpau/ais-targetship-searcher/internal/tracks"
	"github.com/nikpau/ais-targetship-searcher/internal/tracks/rules"
)

// Targets maps vessel ids to reconstructed vessels.
type Targets = map[ais.MMSI]*tracks.Vessel

// RunStats summarizes one reconstruction pass. Per-vessel failures reduce
// the result set and surface here and in the logs; the pass itself still
// succeeds.
type RunStats struct {
	RunID            string
	PoolSize         int
	TimeFiltered     int
	Candidates       int
	Corrections      tracks.CorrectionReport
	RejectedSegments int
	DroppedVessels   int
}

// Agent owns a bounded report pool and answers trajectory queries over it.
// The projection strategy is resolved once at construction and used
// consistently by the spatial index and the interpolation channels.
type Agent struct {
	frame  geo.BoundingBox
	cfg    *config.TuningConfig
	proj   geo.Projection
	static *ais.StaticPool

	// chunks preserves ingestion chunk boundaries for parallel
	// full-frame assembly; pool is the flattened candidate set.
	chunks [][]ais.Message
	pool   []ais.Message
}

// NewAgent builds an agent over the given frame and report chunks. Reports
// outside the frame are discarded; the remaining ones are lifted into the
// configured planar projection.
func NewAgent(frame geo.BoundingBox, cfg *config.TuningConfig, static *ais.StaticPool, chunks ...[]ais.Message) (*Agent, error) {
	if err := frame.Validate(); err != nil {
		return nil, fmt.Errorf("invalid frame: %w", err)
	}
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config: %w", err)
	}

	var proj geo.Projection
	switch cfg.GetProjectionMode() {
	case config.ProjectionUTM:
		proj = geo.NewUTMProjection(frame)
	default:
		proj = geo.LatLonProjection{}
	}

	a := &Agent{frame: frame, cfg: cfg, proj: proj, static: static}
	for _, chunk := range chunks {
		kept := make([]ais.Message, 0, len(chunk))
		for _, m := range chunk {
			if !frame.Contains(m.Lat, m.Lon) {
				continue
			}
			m.Northing, m.Easting = proj.Project(m.Lat, m.Lon)
			kept = append(kept, m)
		}
		a.chunks = append(a.chunks, kept)
		a.pool = append(a.pool, kept...)
	}

	monitoring.Infof("%s mode initialized, %d reports in frame %s",
		proj.Name(), len(a.pool), frame)
	return a, nil
}

// PoolSize returns the number of in-frame reports the agent holds.
func (a *Agent) PoolSize() int { return len(a.pool) }

// GetShips returns the target ships in the neighborhood of the query
// anchor: time filter, spatial neighbor query, track assembly, kinematic
// correction, query-time overlap filtering and interpolation with the
// given mode. Vessels whose trajectories cannot be interpolated are
// dropped and logged.
func (a *Agent) GetShips(anchor geo.TimePosition, mode interp.Mode) (Targets, RunStats, error) {
	switch mode {
	case interp.Linear, interp.Spline:
	default:
		return nil, RunStats{}, fmt.Errorf("interpolation mode must be %q or %q, got %q",
			interp.Linear, interp.Spline, mode)
	}

	targets, stats := a.reconstructNeighborhood(anchor)

	overlap, err := rules.NewRecipe(rules.DoesNotOverlapQueryTime{Anchor: anchor})
	if err != nil {
		return nil, stats, err
	}
	result := overlap.Apply(targets)
	for _, segs := range result.Rejected {
		stats.RejectedSegments += len(segs)
	}

	stats.DroppedVessels = a.Interpolate(targets, mode)
	a.logRun("get_ships", stats)
	return targets, stats, nil
}

// GetRawShips returns the corrected segments around the anchor without
// overlap filtering or interpolation, mirroring the raw query surface.
func (a *Agent) GetRawShips(anchor geo.TimePosition) (Targets, RunStats, error) {
	targets, stats := a.reconstructNeighborhood(anchor)
	a.logRun("get_raw_ships", stats)
	return targets, stats, nil
}

// GetAllShips reconstructs every vessel in the frame, fanning assembly out
// over the configured worker count partitioned by MMSI. skipSplit bypasses
// gap segmentation so each vessel keeps a single time-sorted segment.
// Interpolation is left to the caller (see Interpolate).
func (a *Agent) GetAllShips(ctx context.Context, skipSplit bool) (Targets, RunStats, error) {
	stats := RunStats{RunID: uuid.New().String(), PoolSize: len(a.pool)}

	assembler := tracks.NewAssembler(tracks.AssemblerConfig{
		Split:     a.splitConfig(),
		SkipSplit: skipSplit,
	}, a.static)
	targets, err := assembler.AssembleChunks(ctx, a.chunks, a.cfg.GetWorkerCount())
	if err != nil {
		return nil, stats, err
	}

	stats.Corrections = a.correctAndDerive(targets)
	a.logRun("get_all_ships", stats)
	return targets, stats, nil
}

// Interpolate fits a continuous-time model per segment of every vessel.
// A vessel whose trajectory cannot be fitted is removed from the result
// set and logged; the count of removed vessels is returned.
func (a *Agent) Interpolate(targets Targets, mode interp.Mode) (dropped int) {
	for mmsi, v := range targets {
		models := make([]*interp.TrackModel, 0, len(v.Segments))
		failed := false
		for _, seg := range v.Segments {
			model, err := interp.Fit(seg.Messages, mode)
			if err != nil {
				monitoring.Warnf("dropping MMSI %d: %v", mmsi, err)
				failed = true
				break
			}
			models = append(models, model)
		}
		if failed {
			delete(targets, mmsi)
			dropped++
			continue
		}
		v.Models = models
	}
	return dropped
}

// Neighbors returns the reports within the configured time window of the
// anchor and within the search radius of its position, nearest first. An
// empty result is valid and logged as a warning.
func (a *Agent) Neighbors(anchor geo.TimePosition) (msgs []ais.Message, timeFiltered int) {
	deltaSeconds := int64(a.cfg.GetTimeDeltaMinutes() * 60)
	filtered := timeFilter(a.pool, anchor.UnixSeconds, deltaSeconds)
	if len(filtered) == 0 {
		monitoring.Warnf("no AIS messages found in time-filtered pool around %d", anchor.UnixSeconds)
		return nil, 0
	}

	points := make([]planePoint, len(filtered))
	for i, m := range filtered {
		points[i] = planePoint{n: m.Northing, e: m.Easting, msg: m}
	}
	qn, qe := a.proj.Project(anchor.Lat, anchor.Lon)
	radius := a.proj.RadiusToPlanar(a.cfg.GetSearchRadiusNM())

	return nearestWithin(points, qn, qe, a.cfg.GetMaxTargetShips(), radius), len(filtered)
}

// reconstructNeighborhood runs the shared front half of the anchored
// queries: neighbor search, assembly and corrections.
func (a *Agent) reconstructNeighborhood(anchor geo.TimePosition) (Targets, RunStats) {
	stats := RunStats{RunID: uuid.New().String(), PoolSize: len(a.pool)}

	neighbors, timeFiltered := a.Neighbors(anchor)
	stats.TimeFiltered = timeFiltered
	stats.Candidates = len(neighbors)
	if len(neighbors) == 0 {
		return Targets{}, stats
	}

	assembler := tracks.NewAssembler(tracks.AssemblerConfig{Split: a.splitConfig()}, a.static)
	targets := assembler.Assemble(neighbors)

	stats.Corrections = a.correctAndDerive(targets)
	return targets, stats
}

// correctAndDerive applies the kinematic corrections, re-projects the
// repaired positions and fills the derived rate channels.
func (a *Agent) correctAndDerive(targets Targets) tracks.CorrectionReport {
	report := tracks.CorrectVessels(targets, tracks.CorrectionConfig{
		PositionTolerance: a.cfg.GetPositionCorrectionTolerance(),
	})
	for _, v := range targets {
		for _, seg := range v.Segments {
			for i := range seg.Messages {
				m := &seg.Messages[i]
				m.Northing, m.Easting = a.proj.Project(m.Lat, m.Lon)
			}
			tracks.FillDerivedRates(seg)
		}
	}
	return report
}

func (a *Agent) splitConfig() tracks.SplitConfig {
	return tracks.SplitConfig{
		MaxTimeGapSeconds: a.cfg.GetMaxTimeGapSeconds(),
		MaxDistanceGapNM:  a.cfg.GetMaxDistanceGapNM(),
	}
}

func (a *Agent) logRun(op string, stats RunStats) {
	monitoring.Infof("run %s %s: pool=%d time_filtered=%d candidates=%d "+
		"speed_corrections=%d position_corrections=%d rejected_segments=%d dropped_vessels=%d",
		stats.RunID, op, stats.PoolSize, stats.TimeFiltered, stats.Candidates,
		stats.Corrections.SpeedCorrections, stats.Corrections.PositionCorrections,
		stats.RejectedSegments, stats.DroppedVessels)
}

// timeFilter restricts the pool to reports whose timestamp lies strictly
// within delta seconds of the anchor timestamp.
func timeFilter(pool []ais.Message, anchorUnix, deltaSeconds int64) []ais.Message {
	var out []ais.Message
	for _, m := range pool {
		if m.Timestamp > anchorUnix-deltaSeconds && m.Timestamp < anchorUnix+deltaSeconds {
			out = append(out, m)
		}
	}
	return out
}
