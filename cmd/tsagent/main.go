// Command tsagent runs one trajectory reconstruction pass over decoded AIS
// CSV files: either a neighbor query around a time-position anchor or a
// full-frame reconstruction of every vessel.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/config"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
	"github.com/nikpau/ais-targetship-searcher/internal/interp"
	"github.com/nikpau/ais-targetship-searcher/internal/loader"
	"github.com/nikpau/ais-targetship-searcher/internal/search"
)

func main() {
	var (
		dynamicFiles = flag.String("dynamic", "", "comma-separated CSV files with dynamic reports (types 1,2,3,18)")
		staticFiles  = flag.String("static", "", "comma-separated CSV files with static reports (type 5)")
		configPath   = flag.String("config", "", "optional tuning config JSON")

		latMin = flag.Float64("latmin", 0, "frame minimum latitude")
		latMax = flag.Float64("latmax", 0, "frame maximum latitude")
		lonMin = flag.Float64("lonmin", 0, "frame minimum longitude")
		lonMax = flag.Float64("lonmax", 0, "frame maximum longitude")

		anchorTime = flag.String("time", "", "anchor timestamp (RFC 3339), required unless -all")
		anchorLat  = flag.Float64("lat", 0, "anchor latitude")
		anchorLon  = flag.Float64("lon", 0, "anchor longitude")

		mode      = flag.String("mode", config.InterpLinear, "interpolation mode: linear or spline")
		all       = flag.Bool("all", false, "reconstruct all vessels in the frame instead of a neighbor query")
		raw       = flag.Bool("raw", false, "skip overlap filtering and interpolation (neighbor query only)")
		skipSplit = flag.Bool("skip-split", false, "bypass gap segmentation (with -all)")
	)
	flag.Parse()

	if *dynamicFiles == "" {
		log.Fatal("at least one -dynamic file is required")
	}

	frame := geo.BoundingBox{LatMin: *latMin, LatMax: *latMax, LonMin: *lonMin, LonMax: *lonMax}
	if err := frame.Validate(); err != nil {
		log.Fatalf("invalid frame: %v", err)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	chunks, err := loader.LoadDynamicFiles(splitList(*dynamicFiles), frame)
	if err != nil {
		log.Fatalf("loading dynamic reports: %v", err)
	}
	var static *ais.StaticPool
	if *staticFiles != "" {
		static, err = loader.LoadStatic(splitList(*staticFiles))
		if err != nil {
			log.Fatalf("loading static reports: %v", err)
		}
	}

	agent, err := search.NewAgent(frame, cfg, static, chunks...)
	if err != nil {
		log.Fatalf("building search agent: %v", err)
	}

	if *all {
		targets, stats, err := agent.GetAllShips(context.Background(), *skipSplit)
		if err != nil {
			log.Fatalf("reconstructing all vessels: %v", err)
		}
		printTargets(targets, stats)
		return
	}

	if *anchorTime == "" {
		log.Fatal("-time is required for a neighbor query")
	}
	t, err := time.Parse(time.RFC3339, *anchorTime)
	if err != nil {
		log.Fatalf("parsing -time: %v", err)
	}
	anchor, err := geo.NewTimePosition(t.Unix(), *anchorLat, *anchorLon)
	if err != nil {
		log.Fatalf("invalid anchor: %v", err)
	}

	var (
		targets search.Targets
		stats   search.RunStats
	)
	if *raw {
		targets, stats, err = agent.GetRawShips(anchor)
	} else {
		targets, stats, err = agent.GetShips(anchor, interp.Mode(*mode))
	}
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	printTargets(targets, stats)

	if !*raw {
		printObservations(targets, anchor)
	}
}

func printTargets(targets search.Targets, stats search.RunStats) {
	fmt.Printf("run %s: %d vessels (pool=%d candidates=%d corrections=%d/%d)\n",
		stats.RunID, len(targets), stats.PoolSize, stats.Candidates,
		stats.Corrections.SpeedCorrections, stats.Corrections.PositionCorrections)
	for mmsi, v := range targets {
		fmt.Printf("  MMSI %d: %d segment(s), types=%v, length=%.1fm\n",
			mmsi, len(v.Segments), v.ShipTypes, v.Length)
	}
}

func printObservations(targets search.Targets, anchor geo.TimePosition) {
	for mmsi, v := range targets {
		for i, model := range v.Models {
			obs := model.At(float64(anchor.UnixSeconds))
			fmt.Printf("  MMSI %d segment %d @%d: northing=%.1f easting=%.1f cog=%.1f sog=%.1f rot=%.2f drot=%.3f\n",
				mmsi, i, anchor.UnixSeconds, obs.Northing, obs.Easting, obs.COG, obs.SOG, obs.ROT, obs.DROT)
		}
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
