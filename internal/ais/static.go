package ais

import (
	"sort"

	"github.com/nikpau/ais-targetship-searcher/internal/monitoring"
)

// StaticRecord is one decoded static report (message type 5).
type StaticRecord struct {
	MMSI     MMSI
	ShipType int
	ToBow    float64 // meters from reference point to bow
	ToStern  float64 // meters from reference point to stern
}

// Length returns the hull length implied by the record.
func (r StaticRecord) Length() float64 {
	return r.ToBow + r.ToStern
}

// StaticPool indexes static records by MMSI and resolves the per-vessel
// attributes. A vessel present only in dynamic data resolves to no ship
// type and zero length; that is logged, never fatal.
type StaticPool struct {
	byMMSI map[MMSI][]StaticRecord
}

// NewStaticPool indexes the given records.
func NewStaticPool(records []StaticRecord) *StaticPool {
	p := &StaticPool{byMMSI: make(map[MMSI][]StaticRecord)}
	for _, r := range records {
		p.byMMSI[r.MMSI] = append(p.byMMSI[r.MMSI], r)
	}
	return p
}

// ShipTypes returns the distinct ship types reported for the given MMSI in
// ascending order. Conflicting reports log a warning and all distinct
// values are returned.
func (p *StaticPool) ShipTypes(mmsi MMSI) []int {
	records, ok := p.byMMSI[mmsi]
	if !ok {
		monitoring.Warnf("no static records for MMSI %d, ship type unresolved", mmsi)
		return nil
	}
	seen := make(map[int]bool)
	var types []int
	for _, r := range records {
		if !seen[r.ShipType] {
			seen[r.ShipType] = true
			types = append(types, r.ShipType)
		}
	}
	sort.Ints(types)
	if len(types) > 1 {
		monitoring.Warnf("more than one ship type found for MMSI %d: %v", mmsi, types)
	}
	return types
}

// Length returns the hull length for the given MMSI. Conflicting reports
// log a warning and the maximum is returned.
func (p *StaticPool) Length(mmsi MMSI) float64 {
	records, ok := p.byMMSI[mmsi]
	if !ok {
		monitoring.Warnf("no static records for MMSI %d, length unresolved", mmsi)
		return 0
	}
	distinct := make(map[float64]bool)
	longest := 0.0
	for _, r := range records {
		l := r.Length()
		distinct[l] = true
		if l > longest {
			longest = l
		}
	}
	if len(distinct) > 1 {
		monitoring.Warnf("more than one ship length found for MMSI %d, returning %.1f", mmsi, longest)
	}
	return longest
}
