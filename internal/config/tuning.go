// Package config holds the tuning parameters for trajectory reconstruction.
// All thresholds that govern segmentation, correction and neighbor queries
// live here so that nothing numeric is hard-coded inside the pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Projection mode names accepted by TuningConfig.ProjectionMode.
const (
	ProjectionLatLon = "latlon"
	ProjectionUTM    = "utm"
)

// Interpolation mode names accepted by TuningConfig.InterpolationMode.
const (
	InterpLinear = "linear"
	InterpSpline = "spline"
)

// TuningConfig represents the root configuration for reconstruction
// parameters. Fields are pointers so that a partial JSON document only
// overrides what it names; the Get* methods supply defaults for the rest.
type TuningConfig struct {
	// Segmentation params
	MaxTimeGapSeconds *float64 `json:"max_time_gap_seconds,omitempty"`
	MaxDistanceGapNM  *float64 `json:"max_distance_gap_nm,omitempty"`

	// Neighbor query params
	TimeDeltaMinutes *float64 `json:"time_delta_minutes,omitempty"`
	SearchRadiusNM   *float64 `json:"search_radius_nm,omitempty"`
	MaxTargetShips   *int     `json:"max_target_ships,omitempty"`

	// Correction params
	PositionCorrectionTolerance *float64 `json:"position_correction_tolerance,omitempty"`

	// Pipeline params
	ProjectionMode    *string `json:"projection_mode,omitempty"`
	InterpolationMode *string `json:"interpolation_mode,omitempty"`
	WorkerCount       *int    `json:"worker_count,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil so
// every accessor falls through to its default.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the JSON file retain their default values, so partial configs are
// safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.MaxTimeGapSeconds != nil && *c.MaxTimeGapSeconds <= 0 {
		return fmt.Errorf("max_time_gap_seconds must be positive, got %f", *c.MaxTimeGapSeconds)
	}
	if c.MaxDistanceGapNM != nil && *c.MaxDistanceGapNM <= 0 {
		return fmt.Errorf("max_distance_gap_nm must be positive, got %f", *c.MaxDistanceGapNM)
	}
	if c.TimeDeltaMinutes != nil && *c.TimeDeltaMinutes <= 0 {
		return fmt.Errorf("time_delta_minutes must be positive, got %f", *c.TimeDeltaMinutes)
	}
	if c.SearchRadiusNM != nil && *c.SearchRadiusNM <= 0 {
		return fmt.Errorf("search_radius_nm must be positive, got %f", *c.SearchRadiusNM)
	}
	if c.MaxTargetShips != nil && *c.MaxTargetShips < 1 {
		return fmt.Errorf("max_target_ships must be at least 1, got %d", *c.MaxTargetShips)
	}
	if c.PositionCorrectionTolerance != nil && *c.PositionCorrectionTolerance < 0 {
		return fmt.Errorf("position_correction_tolerance must be non-negative, got %f",
			*c.PositionCorrectionTolerance)
	}
	if c.ProjectionMode != nil {
		switch *c.ProjectionMode {
		case ProjectionLatLon, ProjectionUTM:
		default:
			return fmt.Errorf("projection_mode must be %q or %q, got %q",
				ProjectionLatLon, ProjectionUTM, *c.ProjectionMode)
		}
	}
	if c.InterpolationMode != nil {
		switch *c.InterpolationMode {
		case InterpLinear, InterpSpline:
		default:
			return fmt.Errorf("interpolation_mode must be %q or %q, got %q",
				InterpLinear, InterpSpline, *c.InterpolationMode)
		}
	}
	if c.WorkerCount != nil && *c.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be at least 1, got %d", *c.WorkerCount)
	}
	return nil
}

// GetMaxTimeGapSeconds returns the maximum time gap between two consecutive
// reports of one vessel before the track is split, in seconds.
func (c *TuningConfig) GetMaxTimeGapSeconds() float64 {
	if c.MaxTimeGapSeconds == nil {
		return 600 // 10 minutes
	}
	return *c.MaxTimeGapSeconds
}

// GetMaxDistanceGapNM returns the maximum great-circle distance between two
// consecutive reports of one vessel before the track is split, in nautical
// miles.
func (c *TuningConfig) GetMaxDistanceGapNM() float64 {
	if c.MaxDistanceGapNM == nil {
		return 3.0
	}
	return *c.MaxDistanceGapNM
}

// GetTimeDeltaMinutes returns the half-width of the symmetric time window
// around a query anchor, in minutes.
func (c *TuningConfig) GetTimeDeltaMinutes() float64 {
	if c.TimeDeltaMinutes == nil {
		return 30
	}
	return *c.TimeDeltaMinutes
}

// GetSearchRadiusNM returns the neighbor search radius in nautical miles.
func (c *TuningConfig) GetSearchRadiusNM() float64 {
	if c.SearchRadiusNM == nil {
		return 20
	}
	return *c.SearchRadiusNM
}

// GetMaxTargetShips returns the maximum number of neighbor candidates a
// spatial query may return.
func (c *TuningConfig) GetMaxTargetShips() int {
	if c.MaxTargetShips == nil {
		return 200
	}
	return *c.MaxTargetShips
}

// GetPositionCorrectionTolerance returns the factor applied to the speed
// delta when deciding whether a dead-reckoned position replaces a reported
// one. The acceptance formula is inherited from the cited heuristics and is
// kept overridable rather than treated as literal law.
func (c *TuningConfig) GetPositionCorrectionTolerance() float64 {
	if c.PositionCorrectionTolerance == nil {
		return 0.5
	}
	return *c.PositionCorrectionTolerance
}

// GetProjectionMode returns the configured projection mode.
func (c *TuningConfig) GetProjectionMode() string {
	if c.ProjectionMode == nil {
		return ProjectionLatLon
	}
	return *c.ProjectionMode
}

// GetInterpolationMode returns the configured interpolation mode.
func (c *TuningConfig) GetInterpolationMode() string {
	if c.InterpolationMode == nil {
		return InterpLinear
	}
	return *c.InterpolationMode
}

// GetWorkerCount returns the number of workers for full-frame assembly.
func (c *TuningConfig) GetWorkerCount() int {
	if c.WorkerCount == nil {
		return 4
	}
	return *c.WorkerCount
}
