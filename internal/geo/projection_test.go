package geo

import (
	"math"
	"testing"
)

func TestLatLonProjection(t *testing.T) {
	p := LatLonProjection{}

	if p.Name() != "latlon" {
		t.Errorf("Name() = %q", p.Name())
	}
	n, e := p.Project(54.5, 8.25)
	if n != 54.5 || e != 8.25 {
		t.Errorf("Project(54.5, 8.25) = (%f, %f), want identity", n, e)
	}
	if got := p.RadiusToPlanar(20); math.Abs(got-20.0/60) > 1e-12 {
		t.Errorf("RadiusToPlanar(20) = %f, want %f", got, 20.0/60)
	}
}

func TestNewUTMProjectionZone(t *testing.T) {
	tests := []struct {
		name     string
		frame    BoundingBox
		wantZone int
	}{
		{"german bight", BoundingBox{LatMin: 53, LatMax: 56, LonMin: 6, LonMax: 12}, 32},
		{"greenwich", BoundingBox{LatMin: 50, LatMax: 52, LonMin: -1, LonMax: 1}, 31},
		{"antimeridian west", BoundingBox{LatMin: 50, LatMax: 51, LonMin: -180, LonMax: -179}, 1},
		{"antimeridian east", BoundingBox{LatMin: 50, LatMax: 51, LonMin: 178, LonMax: 180}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewUTMProjection(tt.frame)
			if p.Zone != tt.wantZone {
				t.Errorf("Zone = %d, want %d", p.Zone, tt.wantZone)
			}
		})
	}
}

func TestUTMProjectCentralMeridian(t *testing.T) {
	// Zone 32, central meridian at 9E. A point on the central meridian at
	// the equator projects exactly onto the false easting with zero
	// northing.
	p := NewUTMProjection(BoundingBox{LatMin: 1, LatMax: 3, LonMin: 8, LonMax: 10})

	northing, easting := p.Project(0, 9)
	if math.Abs(easting-500000) > 1e-6 {
		t.Errorf("easting on central meridian = %f, want 500000", easting)
	}
	if math.Abs(northing) > 1e-6 {
		t.Errorf("northing at equator = %f, want 0", northing)
	}
}

func TestUTMProjectMonotonic(t *testing.T) {
	p := NewUTMProjection(BoundingBox{LatMin: 53, LatMax: 56, LonMin: 6, LonMax: 12})

	n1, e1 := p.Project(54.0, 9.0)
	n2, e2 := p.Project(55.0, 9.0)
	if n2 <= n1 {
		t.Errorf("northing not increasing with latitude: %f then %f", n1, n2)
	}
	if math.Abs(e2-e1) > 1 {
		t.Errorf("easting drifted on central meridian: %f vs %f", e1, e2)
	}
	// One degree of latitude is roughly 111 km of northing.
	if d := n2 - n1; d < 110000 || d > 112000 {
		t.Errorf("one degree of latitude = %f m of northing", d)
	}

	_, eWest := p.Project(54.0, 8.0)
	_, eEast := p.Project(54.0, 10.0)
	if !(eWest < e1 && e1 < eEast) {
		t.Errorf("easting not increasing with longitude: %f, %f, %f", eWest, e1, eEast)
	}
	// One degree of longitude at 54N is roughly cos(54)*111 km.
	if d := eEast - eWest; d < 128000 || d > 133000 {
		t.Errorf("two degrees of longitude = %f m of easting", d)
	}
}

func TestUTMProjectSouthernHemisphere(t *testing.T) {
	p := NewUTMProjection(BoundingBox{LatMin: -35, LatMax: -33, LonMin: 150, LonMax: 152})
	northing, _ := p.Project(-34, 151)
	if northing <= 0 || northing >= 10000000 {
		t.Errorf("southern northing = %f, want within (0, 1e7)", northing)
	}
}

func TestUTMRadiusToPlanar(t *testing.T) {
	p := NewUTMProjection(BoundingBox{LatMin: 53, LatMax: 56, LonMin: 6, LonMax: 12})
	if got := p.RadiusToPlanar(20); got != 37040 {
		t.Errorf("RadiusToPlanar(20) = %f, want 37040", got)
	}
}
