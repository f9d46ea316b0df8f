package search

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
)

// planePoint is one candidate report lifted into the planar frame for
// spatial-index queries. Distance is squared Euclidean, matching
// kdtree.Point.
type planePoint struct {
	n, e float64
	msg  ais.Message
}

func (p planePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(planePoint)
	switch d {
	case 0:
		return p.n - q.n
	default:
		return p.e - q.e
	}
}

func (p planePoint) Dims() int { return 2 }

func (p planePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(planePoint)
	dn := p.n - q.n
	de := p.e - q.e
	return dn*dn + de*de
}

// planePoints implements kdtree.Interface over a candidate pool.
type planePoints []planePoint

func (p planePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p planePoints) Len() int                      { return len(p) }
func (p planePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p planePoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, planePoints: p}.Pivot()
}

// plane is a wrapper for sorting planePoints along one dimension.
type plane struct {
	kdtree.Dim
	planePoints
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.planePoints[i].n < p.planePoints[j].n
	default:
		return p.planePoints[i].e < p.planePoints[j].e
	}
}

func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.planePoints = p.planePoints[start:end]
	return p
}

func (p plane) Swap(i, j int) {
	p.planePoints[i], p.planePoints[j] = p.planePoints[j], p.planePoints[i]
}

// nearestWithin returns the up-to-k candidates nearest to the query point
// whose planar distance does not exceed radius. Heap slots the tree could
// not fill within the pool report an infinite distance; those placeholders
// are excluded from the result. Results are ordered by distance, ties by
// timestamp, so queries are deterministic.
func nearestWithin(pool []planePoint, qn, qe float64, k int, radius float64) []ais.Message {
	if len(pool) == 0 || k < 1 {
		return nil
	}
	tree := kdtree.New(planePoints(pool), false)
	keep := kdtree.NewNKeeper(k)
	tree.NearestSet(keep, planePoint{n: qn, e: qe})

	r2 := radius * radius
	type hit struct {
		dist float64
		msg  ais.Message
	}
	var hits []hit
	for _, c := range keep.Heap {
		if c.Comparable == nil || math.IsInf(c.Dist, 1) {
			continue
		}
		if c.Dist > r2 {
			continue
		}
		hits = append(hits, hit{dist: c.Dist, msg: c.Comparable.(planePoint).msg})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].msg.Timestamp < hits[j].msg.Timestamp
	})

	msgs := make([]ais.Message, len(hits))
	for i, h := range hits {
		msgs[i] = h.msg
	}
	return msgs
}
