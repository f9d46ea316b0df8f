package tracks

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/monitoring"
)

// AssemblerConfig configures track assembly.
type AssemblerConfig struct {
	// Split holds the gap thresholds for the default segmentation
	// predicate.
	Split SplitConfig
	// ExtraSplitRules are additional pair rules composed with the
	// default predicate; any rule voting true splits the track.
	ExtraSplitRules []PairRule
	// SkipSplit bypasses gap segmentation entirely: each vessel keeps
	// one time-sorted, de-duplicated segment.
	SkipSplit bool
}

// Assembler groups reports by vessel id, orders them by time and splits
// each vessel's stream into disjoint segments at continuity breaks.
// Assembly is independent per MMSI, so full-pool construction parallelizes
// by partitioning strictly on vessel id.
type Assembler struct {
	cfg    AssemblerConfig
	static *ais.StaticPool
	split  PairRule
}

// NewAssembler builds an assembler. static may be nil when no static
// reports are available; attributes then stay unresolved.
func NewAssembler(cfg AssemblerConfig, static *ais.StaticPool) *Assembler {
	rules := append([]PairRule{cfg.Split.PairRule()}, cfg.ExtraSplitRules...)
	return &Assembler{
		cfg:    cfg,
		static: static,
		split:  AnyPairRule(rules...),
	}
}

// Assemble builds the vessel map from a single unordered report
// collection.
func (a *Assembler) Assemble(msgs []ais.Message) map[ais.MMSI]*Vessel {
	targets, _ := a.AssembleChunks(context.Background(), [][]ais.Message{msgs}, 1)
	return targets
}

// AssembleChunks builds the vessel map from reports spanning multiple
// ingestion chunks. Chunk-local streams for the same vessel are
// concatenated in chunk order with duplicate timestamps dropped at the
// boundaries, then segmented. Segmentation fans out over at most workers
// goroutines, partitioned by MMSI.
func (a *Assembler) AssembleChunks(ctx context.Context, chunks [][]ais.Message, workers int) (map[ais.MMSI]*Vessel, error) {
	if workers < 1 {
		workers = 1
	}

	// Per-chunk grouping and time ordering.
	chunkGroups := make([]map[ais.MMSI][]ais.Message, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunkGroups[i] = groupSorted(chunk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concatenate chunk-local streams in chunk order. A duplicate
	// timestamp straddling a chunk boundary escapes the per-chunk
	// de-duplication, so it is dropped here before concatenation.
	streams := make(map[ais.MMSI][]ais.Message)
	var order []ais.MMSI
	for _, groups := range chunkGroups {
		mmsis := make([]ais.MMSI, 0, len(groups))
		for mmsi := range groups {
			mmsis = append(mmsis, mmsi)
		}
		sort.Slice(mmsis, func(i, j int) bool { return mmsis[i] < mmsis[j] })
		for _, mmsi := range mmsis {
			part := groups[mmsi]
			prev, seen := streams[mmsi]
			if !seen {
				order = append(order, mmsi)
			}
			if len(prev) > 0 && len(part) > 0 &&
				prev[len(prev)-1].Timestamp == part[0].Timestamp {
				part = part[1:]
			}
			streams[mmsi] = append(prev, part...)
		}
	}

	// Segment each vessel's stream, partitioned strictly by MMSI.
	vessels := make([]*Vessel, len(order))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, mmsi := range order {
		i, mmsi := i, mmsi
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vessels[i] = a.buildVessel(mmsi, streams[mmsi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	targets := make(map[ais.MMSI]*Vessel, len(order))
	for _, v := range vessels {
		if v != nil {
			targets[v.MMSI] = v
		}
	}
	return targets, nil
}

// buildVessel segments one vessel's stream and resolves its static
// attributes. Returns nil when no segment survives the two-report minimum.
func (a *Assembler) buildVessel(mmsi ais.MMSI, stream []ais.Message) *Vessel {
	segments := a.splitStream(stream)
	if len(segments) == 0 {
		monitoring.Warnf("target ship %d has no tracks left after splitting", mmsi)
		return nil
	}
	v := &Vessel{MMSI: mmsi, Segments: segments}
	if a.static != nil {
		v.ShipTypes = a.static.ShipTypes(mmsi)
		v.Length = a.static.Length(mmsi)
	}
	return v
}

// splitStream walks a time-sorted stream and cuts it at every split point.
// Duplicate timestamps are dropped rather than treated as boundaries.
// Segments with fewer than two reports cannot support correction or
// interpolation and are discarded.
func (a *Assembler) splitStream(stream []ais.Message) []*Segment {
	sorted := sortedByTime(stream)

	var segments []*Segment
	var current []ais.Message
	for _, msg := range sorted {
		if len(current) == 0 {
			current = append(current, msg)
			continue
		}
		prev := current[len(current)-1]
		if msg.Timestamp == prev.Timestamp {
			continue
		}
		if !a.cfg.SkipSplit && a.split(prev, msg) {
			segments = appendSegment(segments, current)
			current = nil
		}
		current = append(current, msg)
	}
	segments = appendSegment(segments, current)
	return segments
}

func appendSegment(segments []*Segment, msgs []ais.Message) []*Segment {
	if len(msgs) < 2 {
		return segments
	}
	return append(segments, &Segment{Messages: msgs})
}

// groupSorted groups a chunk by MMSI and returns each group time-sorted
// with duplicate timestamps collapsed, first occurrence winning.
func groupSorted(msgs []ais.Message) map[ais.MMSI][]ais.Message {
	groups := make(map[ais.MMSI][]ais.Message)
	for _, m := range msgs {
		groups[m.MMSI] = append(groups[m.MMSI], m)
	}
	for mmsi, group := range groups {
		groups[mmsi] = dedupTimestamps(sortedByTime(group))
	}
	return groups
}

func sortedByTime(msgs []ais.Message) []ais.Message {
	out := append([]ais.Message(nil), msgs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func dedupTimestamps(sorted []ais.Message) []ais.Message {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, m := range sorted[1:] {
		if m.Timestamp == out[len(out)-1].Timestamp {
			continue
		}
		out = append(out, m)
	}
	return out
}
